package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/agentic-grocery/backend/internal/service"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// BuildGroceryListRequest carries either a saved recipe id or inline
// ingredients.
type BuildGroceryListRequest struct {
	RecipeID    *uuid.UUID         `json:"recipe_id"`
	Name        string             `json:"name"`
	Ingredients []types.Ingredient `json:"ingredients"`
}

type GroceryHandler struct {
	groceryService *service.GroceryService
	recipeService  *service.RecipeService
}

func NewGroceryHandler(groceryService *service.GroceryService, recipeService *service.RecipeService) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService, recipeService: recipeService}
}

func (h *GroceryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/grocery", h.Build)
	lists := router.Group("/grocery-lists")
	{
		lists.GET("", h.List)
		lists.POST("/:id/complete", h.Complete)
	}
}

// Build constructs a priced grocery list from a saved recipe or inline
// ingredients and persists it. Catalog trouble degrades to fallback pricing,
// never an error.
func (h *GroceryHandler) Build(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	uid := userID.(uuid.UUID)

	var req BuildGroceryListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	name := req.Name
	ingredients := req.Ingredients

	if req.RecipeID != nil {
		recipe, err := h.recipeService.Get(c.Request.Context(), uid, *req.RecipeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
			return
		}
		ingredients = []types.Ingredient(recipe.Ingredients)
		if name == "" {
			name = recipe.Title
		}
	}

	if len(ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_id or ingredients required"})
		return
	}
	if name == "" {
		name = "Grocery List"
	}

	list, result, err := h.groceryService.CreateList(c.Request.Context(), uid, req.RecipeID, name, ingredients)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save grocery list"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"list_id":              list.ID,
		"store":                result.Store,
		"items":                result.Items,
		"total_estimated_cost": result.TotalCost,
		"catalog_hit_count":    result.CatalogHitCount,
		"total_count":          result.TotalCount,
		"cart_url":             result.CartURL,
		"message":              result.Message,
	})
}

func (h *GroceryHandler) List(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	lists, err := h.groceryService.ListsForUser(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list grocery lists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grocery_lists": lists})
}

func (h *GroceryHandler) Complete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return
	}

	list, err := h.groceryService.Complete(c.Request.Context(), userID.(uuid.UUID), listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "grocery list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete grocery list"})
		return
	}

	c.JSON(http.StatusOK, list)
}
