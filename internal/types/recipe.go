package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Quantity accepts both string and numeric values, since the LLM is not
// consistent about which one it returns for ingredient amounts.
type Quantity struct {
	Value string
}

func (q Quantity) String() string { return q.Value }

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Value)
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if num == float64(int64(num)) {
			q.Value = strconv.FormatInt(int64(num), 10)
		} else {
			q.Value = strconv.FormatFloat(num, 'f', -1, 64)
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		q.Value = str
		return nil
	}

	return fmt.Errorf("invalid quantity format")
}

// Multiplier returns the cost scaling factor for the quantity. Only a bare
// integer count ("2", "3 ") scales the unit price; measured amounts like
// "200g" or "1/2 cup" contribute a single unit because catalog prices are
// per package, not per gram.
func (q Quantity) Multiplier() float64 {
	trimmed := strings.TrimSpace(q.Value)
	if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
		return float64(n)
	}
	return 1
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name        string   `json:"name"`
	Quantity    Quantity `json:"quantity"`
	Unit        string   `json:"unit,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
}

// Macros holds per-serving macronutrient targets or estimates.
type Macros struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Calories float64 `json:"calories"`
	FiberG   float64 `json:"fiber_g,omitempty"`
}

// Recipe is a generated meal option as presented to the client. It is not
// persisted until the user saves it.
type Recipe struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	CookTime     string       `json:"cook_time"`
	Servings     int          `json:"servings"`
	Macros       Macros       `json:"macros"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	ImageURL     string       `json:"image_url"`
	Cuisine      string       `json:"cuisine,omitempty"`
	Difficulty   string       `json:"difficulty"`
}
