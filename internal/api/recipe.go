package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/agentic-grocery/backend/internal/middleware"
	"github.com/pageza/agentic-grocery/backend/internal/service"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

type GenerateRecipesRequest struct {
	Preferences types.Preferences `json:"preferences"`
}

type RecipeHandler struct {
	recipeService  *service.RecipeService
	profileService *service.ProfileService
	rateLimiter    *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, profileService *service.ProfileService, rateLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:  recipeService,
		profileService: profileService,
		rateLimiter:    rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		if h.rateLimiter != nil {
			recipes.POST("/generate", h.rateLimiter.RateLimitMiddleware(), h.Generate)
		} else {
			recipes.POST("/generate", h.Generate)
		}
		recipes.GET("", h.List)
		recipes.POST("", h.Save)
		recipes.GET("/:id", h.Get)
		recipes.POST("/:id/favorite", h.ToggleFavorite)
		recipes.POST("/:id/cooked", h.MarkCooked)
	}
}

// Generate produces recipe options from the caller's profile plus request
// preferences. It always answers 200 with a complete set; upstream LLM
// trouble degrades to the mock recipes.
func (h *RecipeHandler) Generate(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	prefs := req.Preferences
	if prefs.DietaryRestrictions == "" {
		prefs.DietaryRestrictions = profile.Diet
	}
	if len(prefs.Likes) == 0 {
		prefs.Likes = profile.Likes
	}
	if len(prefs.Dislikes) == 0 {
		prefs.Dislikes = profile.Dislikes
	}

	c.JSON(http.StatusOK, h.recipeService.Generate(c.Request.Context(), profile, prefs))
}

func (h *RecipeHandler) List(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipes, err := h.recipeService.ListForUser(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) Save(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var recipe types.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if recipe.Title == "" || len(recipe.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe needs a title and ingredients"})
		return
	}

	saved, err := h.recipeService.Save(c.Request.Context(), userID.(uuid.UUID), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), userID.(uuid.UUID), recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.ToggleFavorite(c.Request.Context(), userID.(uuid.UUID), recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) MarkCooked(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.MarkCooked(c.Request.Context(), userID.(uuid.UUID), recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}
