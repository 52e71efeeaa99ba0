package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/agentic-grocery/backend/internal/models"
	"github.com/pageza/agentic-grocery/backend/internal/service"
	"github.com/pageza/agentic-grocery/backend/internal/testhelpers"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// fakeGenerator scripts the LLM reply.
type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

const validRecipeJSON = `[
  {
    "title": "Masala Oats Bowl",
    "description": "Savory oats with vegetables",
    "cook_time": "15-30 mins",
    "servings": 1,
    "macros": {"protein_g": 20, "carbs_g": 45, "fat_g": 10, "calories": 350, "fiber_g": 6},
    "ingredients": [{"name": "rolled oats", "quantity": "1 cup"}, {"name": "onions", "quantity": 1}],
    "instructions": ["Toast oats", "Simmer with vegetables"],
    "cuisine": "indian",
    "difficulty": "easy"
  }
]`

func vegIndianPrefs() types.Preferences {
	return types.Preferences{
		MealType:            "lunch",
		CookTime:            "30-45 mins",
		Cuisine:             "indian",
		DietaryRestrictions: "vegetarian",
	}
}

func TestGenerateUsesLLMOutput(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, &fakeGenerator{text: "Here you go!\n```json\n" + validRecipeJSON + "\n```"})

	set := svc.Generate(context.Background(), nil, vegIndianPrefs())

	assert.Equal(t, types.RecipeSourceLLM, set.Source)
	require.Len(t, set.Recipes, 1)
	assert.Equal(t, "Masala Oats Bowl", set.Recipes[0].Title)
	assert.NotEmpty(t, set.Recipes[0].ImageURL)
	// Numeric quantity tolerated alongside strings.
	assert.Equal(t, "1", set.Recipes[0].Ingredients[1].Quantity.Value)
}

func TestGenerateFallsBackOnLLMTimeout(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, &fakeGenerator{err: errors.New("context deadline exceeded")})

	set := svc.Generate(context.Background(), nil, vegIndianPrefs())

	assert.Equal(t, types.RecipeSourceMock, set.Source)
	require.Len(t, set.Recipes, 3)
	assert.Equal(t, "Paneer Tikka with Quinoa", set.Recipes[0].Title)
	assert.Equal(t, "Spicy Chickpea Buddha Bowl", set.Recipes[1].Title)
	assert.Equal(t, "Dal Tadka with Roti", set.Recipes[2].Title)
}

func TestGenerateFallsBackWithoutAPIKey(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, service.NewLLMClient("", "https://example.invalid", "test-model"))

	set := svc.Generate(context.Background(), nil, vegIndianPrefs())

	assert.Equal(t, types.RecipeSourceMock, set.Source)
	assert.Len(t, set.Recipes, 3)
}

func TestGenerateFallsBackOnSchemaMismatch(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	// Entries without a title or ingredients are rejected, leaving nothing.
	svc := service.NewRecipeService(db, &fakeGenerator{text: `[{"description": "mystery dish"}]`})

	set := svc.Generate(context.Background(), nil, vegIndianPrefs())

	assert.Equal(t, types.RecipeSourceMock, set.Source)
	assert.Len(t, set.Recipes, 3)
}

func TestGenerateGenericMocksForOtherPreferences(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, &fakeGenerator{err: errors.New("boom")})

	set := svc.Generate(context.Background(), nil, types.Preferences{
		MealType:            "dinner",
		CookTime:            "15-30 mins",
		Cuisine:             "italian",
		DietaryRestrictions: "omnivore",
	})

	assert.Equal(t, types.RecipeSourceMock, set.Source)
	require.Len(t, set.Recipes, 3)
	assert.Contains(t, set.Recipes[0].Title, "Dinner")
}

func TestGenerateScalesMacrosToMeal(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, &fakeGenerator{err: errors.New("down")})

	profile := &models.UserProfile{
		TargetProteinG: 160,
		TargetCarbsG:   240,
		TargetFatG:     60,
		TargetCalories: 2000,
	}

	set := svc.Generate(context.Background(), profile, types.Preferences{
		MealType:            "breakfast",
		CookTime:            "15-30 mins",
		Cuisine:             "indian",
		DietaryRestrictions: "vegetarian",
	})

	// Breakfast carries a quarter of the daily targets.
	assert.InDelta(t, 40, set.Recipes[0].Macros.ProteinG, 0.01)
	assert.InDelta(t, 500, set.Recipes[0].Macros.Calories, 0.01)
}

func TestParseRecipesToleratesProse(t *testing.T) {
	recipes, err := service.ParseRecipes("Sure! Here are your recipes:\n" + validRecipeJSON + "\nEnjoy!")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Masala Oats Bowl", recipes[0].Title)
}

func TestParseRecipesToleratesBareFence(t *testing.T) {
	recipes, err := service.ParseRecipes("```\n" + validRecipeJSON + "\n```")
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestParseRecipesRejectsNonJSON(t *testing.T) {
	_, err := service.ParseRecipes("I could not produce recipes today.")
	assert.Error(t, err)
}

func TestSaveListFavoriteRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	authSvc := service.NewAuthService(db, "test-secret")
	user, _, err := authSvc.Register("cook@example.com", "cook", "password123")
	require.NoError(t, err)

	saved, err := svc.Save(context.Background(), user.ID, types.Recipe{
		Title:    "Dal Tadka with Roti",
		CookTime: "30-45 mins",
		Servings: 1,
		Macros:   types.Macros{ProteinG: 30, Calories: 540},
		Ingredients: []types.Ingredient{
			{Name: "toor dal (split pigeon peas)", Quantity: types.Quantity{Value: "3/4 cup"}},
		},
		Instructions: []string{"Pressure cook dal with turmeric until soft"},
	})
	require.NoError(t, err)
	assert.False(t, saved.IsFavorite)

	recipes, err := svc.ListForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Len(t, []types.Ingredient(recipes[0].Ingredients), 1)

	toggled, err := svc.ToggleFavorite(context.Background(), user.ID, saved.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	toggled, err = svc.ToggleFavorite(context.Background(), user.ID, saved.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)
}

func TestMarkCooked(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	authSvc := service.NewAuthService(db, "test-secret")
	user, _, err := authSvc.Register("cook2@example.com", "cook2", "password123")
	require.NoError(t, err)

	saved, err := svc.Save(context.Background(), user.ID, types.Recipe{
		Title:       "Paneer Tikka with Quinoa",
		Ingredients: []types.Ingredient{{Name: "paneer", Quantity: types.Quantity{Value: "200g"}}},
	})
	require.NoError(t, err)

	cooked, err := svc.MarkCooked(context.Background(), user.ID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cooked.TimesCooked)
	require.NotNil(t, cooked.LastCooked)
}
