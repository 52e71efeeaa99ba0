package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe is a recipe the user kept from a generation run.
type SavedRecipe struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CookTime    string `gorm:"size:50" json:"cook_time"`
	Servings    int    `json:"servings"`
	Cuisine     string `gorm:"size:50" json:"cuisine"`
	Difficulty  string `gorm:"size:20" json:"difficulty"`

	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Calories float64 `json:"calories"`
	FiberG   float64 `json:"fiber_g"`

	Ingredients  JSONIngredients `gorm:"type:text" json:"ingredients"`
	Instructions JSONStringArray `gorm:"type:text" json:"instructions"`
	ImageURL     string          `gorm:"size:512" json:"image_url"`

	IsFavorite  bool       `gorm:"default:false" json:"is_favorite"`
	TimesCooked int        `gorm:"default:0" json:"times_cooked"`
	LastCooked  *time.Time `json:"last_cooked,omitempty"`
}

func (r *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
