package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/agentic-grocery/backend/internal/models"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Get returns the user's dietary profile, creating an empty one if the user
// predates profile rows.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{UserID: userID}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("creating profile: %w", err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileUpdate carries the mutable profile fields. Pointer fields left nil
// are not touched.
type ProfileUpdate struct {
	HeightCM         *float64  `json:"height_cm"`
	WeightKG         *float64  `json:"weight_kg"`
	Age              *int      `json:"age"`
	Gender           *string   `json:"gender"`
	Goal             *string   `json:"goal"`
	WorkoutFrequency *string   `json:"workout_frequency"`
	ActivityLevel    *string   `json:"activity_level"`
	Diet             *string   `json:"diet"`
	Allergies        *[]string `json:"allergies"`
	Likes            *[]string `json:"likes"`
	Dislikes         *[]string `json:"dislikes"`
	TargetProteinG   *float64  `json:"target_protein_g"`
	TargetCarbsG     *float64  `json:"target_carbs_g"`
	TargetFatG       *float64  `json:"target_fat_g"`
	TargetCalories   *float64  `json:"target_calories"`
}

// Update applies a partial update to the user's profile.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.HeightCM != nil {
		profile.HeightCM = *update.HeightCM
	}
	if update.WeightKG != nil {
		profile.WeightKG = *update.WeightKG
	}
	if update.Age != nil {
		profile.Age = *update.Age
	}
	if update.Gender != nil {
		profile.Gender = *update.Gender
	}
	if update.Goal != nil {
		profile.Goal = *update.Goal
	}
	if update.WorkoutFrequency != nil {
		profile.WorkoutFrequency = *update.WorkoutFrequency
	}
	if update.ActivityLevel != nil {
		profile.ActivityLevel = *update.ActivityLevel
	}
	if update.Diet != nil {
		profile.Diet = *update.Diet
	}
	if update.Allergies != nil {
		profile.Allergies = *update.Allergies
	}
	if update.Likes != nil {
		profile.Likes = *update.Likes
	}
	if update.Dislikes != nil {
		profile.Dislikes = *update.Dislikes
	}
	if update.TargetProteinG != nil {
		profile.TargetProteinG = *update.TargetProteinG
	}
	if update.TargetCarbsG != nil {
		profile.TargetCarbsG = *update.TargetCarbsG
	}
	if update.TargetFatG != nil {
		profile.TargetFatG = *update.TargetFatG
	}
	if update.TargetCalories != nil {
		profile.TargetCalories = *update.TargetCalories
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return profile, nil
}
