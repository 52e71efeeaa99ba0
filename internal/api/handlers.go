package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/agentic-grocery/backend/internal/middleware"
	"github.com/pageza/agentic-grocery/backend/internal/service"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Agentic Grocery API is running",
		"version": "v1.0.0",
	})
}

// Services bundles everything the router needs.
type Services struct {
	Auth    *service.AuthService
	Profile *service.ProfileService
	Chat    *service.ChatService
	Recipe  *service.RecipeService
	Grocery *service.GroceryService
	Meal    *service.MealService
}

// RegisterRoutes wires all API routes onto the router. A nil redis client
// disables rate limiting.
func RegisterRoutes(router *gin.Engine, svcs Services, redisClient *redis.Client) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", HealthCheck)

	var generationLimiter *middleware.RateLimiter
	if redisClient != nil {
		generationLimiter = middleware.NewRecipeGenerationRateLimiter(redisClient)
	} else {
		log.Printf("[API] redis unavailable, recipe generation rate limiting disabled")
	}

	authHandler := NewAuthHandler(svcs.Auth)
	profileHandler := NewProfileHandler(svcs.Profile)
	chatHandler := NewChatHandler(svcs.Chat, svcs.Profile)
	recipeHandler := NewRecipeHandler(svcs.Recipe, svcs.Profile, generationLimiter)
	groceryHandler := NewGroceryHandler(svcs.Grocery, svcs.Recipe)
	mealHandler := NewMealHandler(svcs.Meal)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(svcs.Auth))
	profileHandler.RegisterRoutes(authed)
	chatHandler.RegisterRoutes(authed)
	recipeHandler.RegisterRoutes(authed)
	groceryHandler.RegisterRoutes(authed)
	mealHandler.RegisterRoutes(authed)

	fullFlow := NewFullFlowHandler(svcs.Chat, svcs.Profile, svcs.Recipe, svcs.Grocery)
	if generationLimiter != nil {
		authed.POST("/full-flow", generationLimiter.RateLimitMiddleware(), fullFlow.Run)
	} else {
		authed.POST("/full-flow", fullFlow.Run)
	}
}

// FullFlowHandler chains chat extraction, recipe generation and grocery list
// construction in a single request.
type FullFlowHandler struct {
	chatService    *service.ChatService
	profileService *service.ProfileService
	recipeService  *service.RecipeService
	groceryService *service.GroceryService
}

func NewFullFlowHandler(chat *service.ChatService, profile *service.ProfileService, recipe *service.RecipeService, grocery *service.GroceryService) *FullFlowHandler {
	return &FullFlowHandler{
		chatService:    chat,
		profileService: profile,
		recipeService:  recipe,
		groceryService: grocery,
	}
}

func (h *FullFlowHandler) Run(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	chatResponse := h.chatService.Process(req.Message, profile)
	if chatResponse.NextAction != types.NextActionGenerateRecipes {
		c.JSON(http.StatusOK, gin.H{
			"step":          "chat",
			"chat_response": chatResponse,
			"message":       "Need more information to proceed",
		})
		return
	}

	recipeSet := h.recipeService.Generate(c.Request.Context(), profile, *chatResponse.Preferences)

	// Price out the first option.
	firstRecipe := recipeSet.Recipes[0]
	groceryResult := h.groceryService.BuildList(c.Request.Context(), firstRecipe.Ingredients)

	c.JSON(http.StatusOK, gin.H{
		"step":             "complete",
		"chat_response":    chatResponse,
		"recipe_response":  recipeSet,
		"grocery_response": groceryResult,
		"message":          "Full workflow completed successfully!",
	})
}
