package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// ErrLLMNotConfigured means no LLM API key was supplied; recipe generation
// falls back to the static mock set.
var ErrLLMNotConfigured = errors.New("llm api key not configured")

// LLMClient calls an Anthropic-style message-creation endpoint and parses
// the free-text reply into typed recipes.
type LLMClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

func NewLLMClient(apiKey, apiURL, model string) *LLMClient {
	return &LLMClient{
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *LLMClient) Configured() bool {
	return c.apiKey != ""
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []llmMessage `json:"messages"`
}

type llmResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends a single user prompt and returns the text of the reply.
func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrLLMNotConfigured
	}

	body, err := json.Marshal(llmRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  []llmMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm request returned %d: %s", resp.StatusCode, string(raw))
	}

	var payload llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding llm response: %w", err)
	}
	if len(payload.Content) == 0 {
		return "", errors.New("llm response has no content")
	}

	return payload.Content[0].Text, nil
}

// ParseRecipes extracts a JSON recipe array from free text. The model may
// wrap the array in markdown fences or surrounding prose; entries missing a
// title or ingredients are rejected rather than silently kept.
func ParseRecipes(text string) ([]types.Recipe, error) {
	jsonText := extractJSONArray(text)
	if jsonText == "" {
		return nil, errors.New("no JSON array found in llm output")
	}

	var recipes []types.Recipe
	if err := json.Unmarshal([]byte(jsonText), &recipes); err != nil {
		return nil, fmt.Errorf("parsing recipe array: %w", err)
	}

	valid := recipes[:0]
	for _, r := range recipes {
		if r.Title == "" || len(r.Ingredients) == 0 {
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil, errors.New("no valid recipes in llm output")
	}

	return valid, nil
}

// extractJSONArray strips markdown fences and returns the outermost
// bracketed array, or "" when none is present.
func extractJSONArray(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	} else if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+len("```"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
