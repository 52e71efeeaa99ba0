package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds the dietary profile used to personalize recipe
// generation: physical stats, goals and target macros.
type UserProfile struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
	Age      int     `json:"age"`
	Gender   string  `gorm:"size:20" json:"gender"`

	Goal             string `gorm:"size:20" json:"goal"`
	WorkoutFrequency string `gorm:"size:20" json:"workout_frequency"`
	ActivityLevel    string `gorm:"size:20" json:"activity_level"`

	Diet      string          `gorm:"size:30" json:"diet"`
	Allergies JSONStringArray `gorm:"type:text" json:"allergies"`
	Likes     JSONStringArray `gorm:"type:text" json:"likes"`
	Dislikes  JSONStringArray `gorm:"type:text" json:"dislikes"`

	TargetProteinG float64 `json:"target_protein_g"`
	TargetCarbsG   float64 `json:"target_carbs_g"`
	TargetFatG     float64 `json:"target_fat_g"`
	TargetCalories float64 `json:"target_calories"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
