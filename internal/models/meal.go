package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealLogEntry records a meal the user actually ate, for history and stats.
type MealLogEntry struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	RecipeID  *uuid.UUID `gorm:"type:varchar(36)" json:"recipe_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Date        time.Time `gorm:"index" json:"date"`
	MealType    string    `gorm:"size:20" json:"meal_type"`
	RecipeTitle string    `gorm:"size:255" json:"recipe_title"`

	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Calories float64 `json:"calories"`

	Rating int    `json:"rating,omitempty"`
	Notes  string `gorm:"type:text" json:"notes,omitempty"`
}

func (m *MealLogEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
