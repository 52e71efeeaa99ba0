package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/agentic-grocery/backend/internal/models"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// Share of daily target macros assigned to each meal.
var mealMacroSplit = map[string]float64{
	"breakfast": 0.25,
	"lunch":     0.35,
	"dinner":    0.30,
	"snack":     0.10,
}

// defaultTargetMacros applies when the profile has no targets set.
var defaultTargetMacros = types.Macros{
	ProteinG: 140,
	CarbsG:   200,
	FatG:     50,
	Calories: 1800,
}

// RecipeGenerator abstracts the LLM call so tests can substitute a fake.
type RecipeGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type RecipeService struct {
	db  *gorm.DB
	llm RecipeGenerator
}

func NewRecipeService(db *gorm.DB, llm RecipeGenerator) *RecipeService {
	return &RecipeService{db: db, llm: llm}
}

// mealMacros scales the profile's daily targets down to a single meal.
func mealMacros(profile *models.UserProfile, mealType string) types.Macros {
	target := defaultTargetMacros
	if profile != nil && profile.TargetCalories > 0 {
		target = types.Macros{
			ProteinG: profile.TargetProteinG,
			CarbsG:   profile.TargetCarbsG,
			FatG:     profile.TargetFatG,
			Calories: profile.TargetCalories,
		}
	}

	ratio, ok := mealMacroSplit[mealType]
	if !ok {
		ratio = 0.33
	}

	return types.Macros{
		ProteinG: math.Round(target.ProteinG*ratio*10) / 10,
		CarbsG:   math.Round(target.CarbsG*ratio*10) / 10,
		FatG:     math.Round(target.FatG*ratio*10) / 10,
		Calories: math.Round(target.Calories * ratio),
	}
}

func buildPrompt(prefs types.Preferences, target types.Macros) string {
	diet := prefs.DietaryRestrictions
	if diet == "" {
		diet = "vegetarian"
	}
	cuisine := prefs.Cuisine
	if cuisine == "" {
		cuisine = "indian"
	}
	mealType := prefs.MealType
	if mealType == "" {
		mealType = "lunch"
	}
	cookTime := prefs.CookTime
	if cookTime == "" {
		cookTime = "30-45 mins"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate 3 %s %s recipes for %s with the following requirements:\n", diet, cuisine, mealType)
	fmt.Fprintf(&b, "- Cook time: %s\n", cookTime)
	fmt.Fprintf(&b, "- Target macros per serving: %gg protein, %gg carbs, %gg fat, %g calories\n",
		target.ProteinG, target.CarbsG, target.FatG, target.Calories)
	fmt.Fprintf(&b, "- User likes: %s\n", strings.Join(prefs.Likes, ", "))
	fmt.Fprintf(&b, "- User dislikes: %s\n\n", strings.Join(prefs.Dislikes, ", "))
	b.WriteString(`For each recipe, provide:
1. Title (creative and appetizing)
2. Short description (1-2 sentences)
3. Exact macros (protein_g, carbs_g, fat_g, calories, fiber_g)
4. Detailed ingredients list with quantities
5. Step-by-step instructions
6. Difficulty level (easy/medium/hard)

Return as valid JSON array with this structure:
[{
  "title": "Recipe Name",
  "description": "Brief description",
  "cook_time": "` + cookTime + `",
  "servings": 1,
  "macros": {"protein_g": X, "carbs_g": Y, "fat_g": Z, "calories": N, "fiber_g": F},
  "ingredients": [{"name": "ingredient", "quantity": "amount"}],
  "instructions": ["step 1", "step 2"],
  "cuisine": "` + cuisine + `",
  "difficulty": "medium"
}]`)
	return b.String()
}

// recipeImageURL builds a deterministic text-to-image link for a recipe.
func recipeImageURL(title, description string) string {
	prompt := fmt.Sprintf("professional food photography of %s, %s, high quality, appetizing, well plated, natural lighting, vibrant colors",
		title, description)
	return "https://image.pollinations.ai/prompt/" + url.PathEscape(prompt) + "?width=512&height=512&nologo=true&enhance=true"
}

// Generate produces recipe options for the given profile and preferences.
// Any LLM problem (no key, network failure, unparseable output) lands on the
// static mock set; the Source field records which path ran.
func (s *RecipeService) Generate(ctx context.Context, profile *models.UserProfile, prefs types.Preferences) *types.RecipeSet {
	target := mealMacros(profile, prefs.MealType)

	if s.llm != nil {
		text, err := s.llm.Complete(ctx, buildPrompt(prefs, target))
		if err == nil {
			recipes, perr := ParseRecipes(text)
			if perr == nil {
				if len(recipes) > 3 {
					recipes = recipes[:3]
				}
				for i := range recipes {
					if recipes[i].ImageURL == "" {
						recipes[i].ImageURL = recipeImageURL(recipes[i].Title, recipes[i].Description)
					}
				}
				return &types.RecipeSet{
					Recipes: recipes,
					Source:  types.RecipeSourceLLM,
					Message: fmt.Sprintf("Here are %d personalized recipe options for you!", len(recipes)),
				}
			}
			log.Printf("[RecipeService] unusable llm output, using mock recipes: %v", perr)
		} else if !errors.Is(err, ErrLLMNotConfigured) {
			log.Printf("[RecipeService] llm call failed, using mock recipes: %v", err)
		}
	}

	recipes := mockRecipes(prefs, target)
	return &types.RecipeSet{
		Recipes: recipes,
		Source:  types.RecipeSourceMock,
		Message: fmt.Sprintf("Here are %d personalized recipe options for you!", len(recipes)),
	}
}

// mockRecipes returns the static recipe set for a preference combination.
// Always exactly 3 recipes.
func mockRecipes(prefs types.Preferences, target types.Macros) []types.Recipe {
	cookTime := prefs.CookTime
	if cookTime == "" {
		cookTime = "30-45 mins"
	}
	diet := prefs.DietaryRestrictions
	if diet == "" {
		diet = "vegetarian"
	}
	cuisine := prefs.Cuisine
	if cuisine == "" {
		cuisine = "indian"
	}

	if diet == "vegetarian" && cuisine == "indian" {
		return []types.Recipe{
			{
				Title:       "Paneer Tikka with Quinoa",
				Description: "Grilled cottage cheese marinated in spices, served with protein-rich quinoa",
				CookTime:    cookTime,
				Servings:    1,
				Macros: types.Macros{
					ProteinG: target.ProteinG,
					CarbsG:   target.CarbsG,
					FatG:     target.FatG,
					Calories: target.Calories,
					FiberG:   8.0,
				},
				Ingredients: []types.Ingredient{
					{Name: "paneer (cottage cheese)", Quantity: types.Quantity{Value: "200g"}},
					{Name: "quinoa", Quantity: types.Quantity{Value: "1/2 cup"}},
					{Name: "yogurt", Quantity: types.Quantity{Value: "1/4 cup"}},
					{Name: "garam masala", Quantity: types.Quantity{Value: "1 tsp"}},
					{Name: "turmeric", Quantity: types.Quantity{Value: "1/2 tsp"}},
					{Name: "bell peppers", Quantity: types.Quantity{Value: "1 cup"}},
					{Name: "onions", Quantity: types.Quantity{Value: "1 medium"}},
				},
				Instructions: []string{
					"Marinate paneer cubes in yogurt, garam masala, and turmeric for 20 mins",
					"Cook quinoa according to package instructions",
					"Grill paneer and vegetables on skewers or pan",
					"Serve paneer tikka over quinoa bed",
					"Garnish with fresh cilantro and lemon",
				},
				ImageURL:   recipeImageURL("Paneer Tikka with Quinoa", "Grilled cottage cheese marinated in spices, served with protein-rich quinoa"),
				Cuisine:    "Indian",
				Difficulty: "medium",
			},
			{
				Title:       "Spicy Chickpea Buddha Bowl",
				Description: "Protein-packed chickpeas with roasted vegetables and tahini dressing",
				CookTime:    cookTime,
				Servings:    1,
				Macros: types.Macros{
					ProteinG: target.ProteinG * 0.9,
					CarbsG:   target.CarbsG * 1.1,
					FatG:     target.FatG * 0.95,
					Calories: target.Calories,
					FiberG:   12.0,
				},
				Ingredients: []types.Ingredient{
					{Name: "chickpeas (cooked)", Quantity: types.Quantity{Value: "1.5 cups"}},
					{Name: "sweet potato", Quantity: types.Quantity{Value: "1 medium"}},
					{Name: "spinach", Quantity: types.Quantity{Value: "2 cups"}},
					{Name: "tahini", Quantity: types.Quantity{Value: "2 tbsp"}},
					{Name: "cumin", Quantity: types.Quantity{Value: "1 tsp"}},
					{Name: "chili powder", Quantity: types.Quantity{Value: "1/2 tsp"}},
					{Name: "brown rice", Quantity: types.Quantity{Value: "1/2 cup cooked"}},
				},
				Instructions: []string{
					"Roast chickpeas with spices at 400°F for 25 mins",
					"Cube and roast sweet potato until tender",
					"Prepare brown rice base in bowl",
					"Sauté spinach with garlic",
					"Arrange all components in bowl and drizzle tahini dressing",
				},
				ImageURL:   recipeImageURL("Spicy Chickpea Buddha Bowl", "Protein-packed chickpeas with roasted vegetables and tahini dressing"),
				Cuisine:    "Indian-fusion",
				Difficulty: "easy",
			},
			{
				Title:       "Dal Tadka with Roti",
				Description: "Protein-rich lentil curry with whole wheat flatbread",
				CookTime:    cookTime,
				Servings:    1,
				Macros: types.Macros{
					ProteinG: target.ProteinG * 1.05,
					CarbsG:   target.CarbsG,
					FatG:     target.FatG * 0.9,
					Calories: target.Calories,
					FiberG:   10.0,
				},
				Ingredients: []types.Ingredient{
					{Name: "toor dal (split pigeon peas)", Quantity: types.Quantity{Value: "3/4 cup"}},
					{Name: "whole wheat flour", Quantity: types.Quantity{Value: "1 cup"}},
					{Name: "tomatoes", Quantity: types.Quantity{Value: "2 medium"}},
					{Name: "cumin seeds", Quantity: types.Quantity{Value: "1 tsp"}},
					{Name: "ghee", Quantity: types.Quantity{Value: "1 tbsp"}},
					{Name: "ginger-garlic paste", Quantity: types.Quantity{Value: "1 tsp"}},
					{Name: "green chilies", Quantity: types.Quantity{Value: "2"}},
				},
				Instructions: []string{
					"Pressure cook dal with turmeric until soft",
					"Prepare tadka: heat ghee, add cumin, chilies, and spices",
					"Add tomatoes and cook until soft",
					"Mix tadka with cooked dal",
					"Make roti with whole wheat flour",
					"Serve dal with fresh roti",
				},
				ImageURL:   recipeImageURL("Dal Tadka with Roti", "Protein-rich lentil curry with whole wheat flatbread"),
				Cuisine:    "Indian",
				Difficulty: "medium",
			},
		}
	}

	// Generic options for other preference combinations.
	mealType := prefs.MealType
	if mealType == "" {
		mealType = "lunch"
	}
	generic := make([]types.Recipe, 0, 3)
	for i := 1; i <= 3; i++ {
		title := fmt.Sprintf("Healthy %s Option %d", capitalize(mealType), i)
		description := fmt.Sprintf("Nutritious %s style %s", cuisine, mealType)
		generic = append(generic, types.Recipe{
			Title:       title,
			Description: description,
			CookTime:    cookTime,
			Servings:    1,
			Macros:      target,
			Ingredients: []types.Ingredient{
				{Name: "main protein", Quantity: types.Quantity{Value: "200g"}},
				{Name: "vegetables", Quantity: types.Quantity{Value: "2 cups"}},
				{Name: "whole grains", Quantity: types.Quantity{Value: "1 cup"}},
			},
			Instructions: []string{
				"Prepare protein source",
				"Cook vegetables",
				"Combine with grains",
				"Season to taste",
			},
			ImageURL:   recipeImageURL(title, description),
			Cuisine:    cuisine,
			Difficulty: "medium",
		})
	}
	return generic
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Save persists a generated recipe for the user.
func (s *RecipeService) Save(ctx context.Context, userID uuid.UUID, recipe types.Recipe) (*models.SavedRecipe, error) {
	saved := models.SavedRecipe{
		UserID:       userID,
		Title:        recipe.Title,
		Description:  recipe.Description,
		CookTime:     recipe.CookTime,
		Servings:     recipe.Servings,
		Cuisine:      recipe.Cuisine,
		Difficulty:   recipe.Difficulty,
		ProteinG:     recipe.Macros.ProteinG,
		CarbsG:       recipe.Macros.CarbsG,
		FatG:         recipe.Macros.FatG,
		Calories:     recipe.Macros.Calories,
		FiberG:       recipe.Macros.FiberG,
		Ingredients:  models.JSONIngredients(recipe.Ingredients),
		Instructions: models.JSONStringArray(recipe.Instructions),
		ImageURL:     recipe.ImageURL,
	}
	if err := s.db.WithContext(ctx).Create(&saved).Error; err != nil {
		return nil, fmt.Errorf("saving recipe: %w", err)
	}
	return &saved, nil
}

// ListForUser returns the user's saved recipes, newest first.
func (s *RecipeService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	var recipes []models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	return recipes, err
}

// Get returns one saved recipe owned by the user.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error) {
	var recipe models.SavedRecipe
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ToggleFavorite flips the favorite flag on a saved recipe.
func (s *RecipeService) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error) {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	recipe.IsFavorite = !recipe.IsFavorite
	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// MarkCooked increments the cooked counter and stamps the time.
func (s *RecipeService) MarkCooked(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error) {
	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	recipe.TimesCooked++
	recipe.LastCooked = &now
	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}
