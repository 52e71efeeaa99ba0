package types

// Preferences is the structured output of chat extraction and the input to
// recipe generation.
type Preferences struct {
	MealType            string   `json:"meal_type"`
	CookTime            string   `json:"cook_time"`
	Cuisine             string   `json:"cuisine"`
	DietaryRestrictions string   `json:"dietary_restrictions"`
	Likes               []string `json:"likes"`
	Dislikes            []string `json:"dislikes"`
}

// ChatResponse is what the chat step returns: either a follow-up question or
// a structured recipe request ready for generation.
type ChatResponse struct {
	Message     string       `json:"message"`
	NextAction  string       `json:"next_action"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

const (
	NextActionAwaitInput      = "await_user_input"
	NextActionGenerateRecipes = "generate_recipes"
)

// RecipeGenerationSource records which path produced a recipe set.
const (
	RecipeSourceLLM  = "llm"
	RecipeSourceMock = "mock"
)

// RecipeSet is the result of one generation call.
type RecipeSet struct {
	Recipes []Recipe `json:"recipes"`
	Source  string   `json:"source"`
	Message string   `json:"message"`
}
