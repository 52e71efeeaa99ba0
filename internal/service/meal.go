package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/agentic-grocery/backend/internal/models"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

// MealLogInput is the payload for logging an eaten meal.
type MealLogInput struct {
	RecipeID    *uuid.UUID   `json:"recipe_id"`
	Date        time.Time    `json:"date"`
	MealType    string       `json:"meal_type"`
	RecipeTitle string       `json:"recipe_title"`
	Macros      types.Macros `json:"macros"`
	Rating      int          `json:"rating"`
	Notes       string       `json:"notes"`
}

// Log records a meal entry. Date defaults to now.
func (s *MealService) Log(ctx context.Context, userID uuid.UUID, input MealLogInput) (*models.MealLogEntry, error) {
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	entry := models.MealLogEntry{
		UserID:      userID,
		RecipeID:    input.RecipeID,
		Date:        input.Date,
		MealType:    input.MealType,
		RecipeTitle: input.RecipeTitle,
		ProteinG:    input.Macros.ProteinG,
		CarbsG:      input.Macros.CarbsG,
		FatG:        input.Macros.FatG,
		Calories:    input.Macros.Calories,
		Rating:      input.Rating,
		Notes:       input.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("logging meal: %w", err)
	}
	return &entry, nil
}

// History returns the user's meals from the last N days, newest first.
// days <= 0 means the default window of 7.
func (s *MealService) History(ctx context.Context, userID uuid.UUID, days int) ([]models.MealLogEntry, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	var entries []models.MealLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// UserStats summarizes a user's activity.
type UserStats struct {
	SavedRecipes    int64 `json:"saved_recipes"`
	FavoriteRecipes int64 `json:"favorite_recipes"`
	GroceryLists    int64 `json:"grocery_lists"`
	MealsLogged     int64 `json:"meals_logged"`
}

// Stats counts the user's saved recipes, favorites, grocery lists and logged
// meals.
func (s *MealService) Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var stats UserStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.SavedRecipe{}).Where("user_id = ?", userID).Count(&stats.SavedRecipes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SavedRecipe{}).Where("user_id = ? AND is_favorite = ?", userID, true).Count(&stats.FavoriteRecipes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.GroceryList{}).Where("user_id = ?", userID).Count(&stats.GroceryLists).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.MealLogEntry{}).Where("user_id = ?", userID).Count(&stats.MealsLogged).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
