package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// JSONStringArray stores a string slice as a JSON column. Works on both
// postgres (jsonb) and the sqlite test database (text).
type JSONStringArray []string

// Value implements the driver.Valuer interface
func (a JSONStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONIngredients stores a recipe's ingredient lines as a JSON column.
type JSONIngredients []types.Ingredient

func (a JSONIngredients) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *JSONIngredients) Scan(value interface{}) error {
	if value == nil {
		*a = JSONIngredients{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// JSONResolvedItems stores a grocery list's priced items as a JSON column.
type JSONResolvedItems []types.ResolvedItem

func (a JSONResolvedItems) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *JSONResolvedItems) Scan(value interface{}) error {
	if value == nil {
		*a = JSONResolvedItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}
