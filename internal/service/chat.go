package service

import (
	"strings"

	"github.com/pageza/agentic-grocery/backend/internal/models"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// knownCuisines are matched as whole words in the user's message.
var knownCuisines = []string{"indian", "italian", "chinese", "mexican", "thai", "japanese"}

// ChatService turns a free-text message plus the stored dietary profile into
// a structured recipe request, asking a follow-up question when the message
// is missing the meal type or available cook time.
type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

// ExtractPreferences pulls meal type, cook time and cuisine out of the
// message by keyword matching and merges in the profile's dietary context.
func (s *ChatService) ExtractPreferences(message string, profile *models.UserProfile) types.Preferences {
	lower := strings.ToLower(message)

	prefs := types.Preferences{}
	if profile != nil {
		prefs.DietaryRestrictions = profile.Diet
		prefs.Likes = profile.Likes
		prefs.Dislikes = profile.Dislikes
	}

	switch {
	case containsAny(lower, "breakfast", "morning"):
		prefs.MealType = "breakfast"
	case containsAny(lower, "lunch", "noon"):
		prefs.MealType = "lunch"
	case containsAny(lower, "dinner", "evening"):
		prefs.MealType = "dinner"
	case strings.Contains(lower, "snack"):
		prefs.MealType = "snack"
	}

	switch {
	case containsAny(lower, "quick", "fast", "15", "20"):
		prefs.CookTime = "15-30 mins"
	case containsAny(lower, "30", "45"):
		prefs.CookTime = "30-45 mins"
	case containsAny(lower, "hour", "60"):
		prefs.CookTime = "45-60 mins"
	}

	for _, cuisine := range knownCuisines {
		if strings.Contains(lower, cuisine) {
			prefs.Cuisine = cuisine
			break
		}
	}

	return prefs
}

// Process runs extraction and decides whether generation can proceed or more
// input is needed.
func (s *ChatService) Process(message string, profile *models.UserProfile) *types.ChatResponse {
	prefs := s.ExtractPreferences(message, profile)

	if prefs.MealType == "" {
		return &types.ChatResponse{
			Message:    "What meal are you planning? (breakfast, lunch, dinner, or snack)",
			NextAction: types.NextActionAwaitInput,
		}
	}
	if prefs.CookTime == "" {
		return &types.ChatResponse{
			Message:    "How much time do you have to cook? (e.g., 15-30 mins, 30-45 mins)",
			NextAction: types.NextActionAwaitInput,
		}
	}

	return &types.ChatResponse{
		Message:     "Great! Let me find some recipes for you...",
		NextAction:  types.NextActionGenerateRecipes,
		Preferences: &prefs,
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
