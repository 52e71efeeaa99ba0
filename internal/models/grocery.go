package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroceryList is a priced shopping list built from a recipe's ingredients.
type GroceryList struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	RecipeID  *uuid.UUID     `gorm:"type:varchar(36)" json:"recipe_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string            `gorm:"size:255;not null" json:"name"`
	Store     string            `gorm:"size:50" json:"store"`
	TotalCost float64           `json:"total_cost"`
	CartURL   string            `gorm:"size:1024" json:"cart_url"`
	Items     JSONResolvedItems `gorm:"type:text" json:"items"`

	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (l *GroceryList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
