package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/agentic-grocery/backend/internal/models"
	"github.com/pageza/agentic-grocery/backend/internal/service"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

func TestExtractPreferences(t *testing.T) {
	svc := service.NewChatService()

	profile := &models.UserProfile{
		Diet:     "vegetarian",
		Likes:    []string{"paneer", "lentils"},
		Dislikes: []string{"mushrooms"},
	}

	tests := []struct {
		name     string
		message  string
		mealType string
		cookTime string
		cuisine  string
	}{
		{
			name:     "quick indian dinner",
			message:  "I want a quick Indian dinner tonight",
			mealType: "dinner",
			cookTime: "15-30 mins",
			cuisine:  "indian",
		},
		{
			name:     "morning meal",
			message:  "something for the morning, I have 45 minutes",
			mealType: "breakfast",
			cookTime: "30-45 mins",
		},
		{
			name:     "hour long thai lunch",
			message:  "thai lunch, I have an hour to cook",
			mealType: "lunch",
			cookTime: "45-60 mins",
			cuisine:  "thai",
		},
		{
			name:     "snack no time",
			message:  "give me a snack idea",
			mealType: "snack",
		},
		{
			name:    "nothing extracted",
			message: "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := svc.ExtractPreferences(tt.message, profile)
			assert.Equal(t, tt.mealType, prefs.MealType)
			assert.Equal(t, tt.cookTime, prefs.CookTime)
			assert.Equal(t, tt.cuisine, prefs.Cuisine)
			assert.Equal(t, "vegetarian", prefs.DietaryRestrictions)
			assert.Equal(t, []string{"paneer", "lentils"}, prefs.Likes)
		})
	}
}

func TestProcessAsksForMealType(t *testing.T) {
	svc := service.NewChatService()

	resp := svc.Process("something quick please", nil)

	assert.Equal(t, types.NextActionAwaitInput, resp.NextAction)
	assert.Contains(t, resp.Message, "What meal")
	assert.Nil(t, resp.Preferences)
}

func TestProcessAsksForCookTime(t *testing.T) {
	svc := service.NewChatService()

	resp := svc.Process("I'd like lunch", nil)

	assert.Equal(t, types.NextActionAwaitInput, resp.NextAction)
	assert.Contains(t, resp.Message, "time")
}

func TestProcessCompleteRequest(t *testing.T) {
	svc := service.NewChatService()

	profile := &models.UserProfile{Diet: "vegetarian"}
	resp := svc.Process("quick indian lunch", profile)

	assert.Equal(t, types.NextActionGenerateRecipes, resp.NextAction)
	require.NotNil(t, resp.Preferences)
	assert.Equal(t, "lunch", resp.Preferences.MealType)
	assert.Equal(t, "15-30 mins", resp.Preferences.CookTime)
	assert.Equal(t, "indian", resp.Preferences.Cuisine)
	assert.Equal(t, "vegetarian", resp.Preferences.DietaryRestrictions)
}
