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

// defaultFallbackPrice is used when no keyword in the static table matches.
const defaultFallbackPrice = 3.99

// fallbackPrices is the static price table used when live catalog pricing is
// unavailable. Keys match by case-insensitive substring.
var fallbackPrices = map[string]float64{
	"paneer":              4.99,
	"cottage cheese":      4.99,
	"quinoa":              3.49,
	"yogurt":              2.99,
	"garam masala":        3.99,
	"turmeric":            2.49,
	"bell peppers":        2.99,
	"onions":              1.49,
	"chickpeas":           1.99,
	"sweet potato":        1.99,
	"spinach":             2.49,
	"tahini":              5.99,
	"cumin":               2.99,
	"chili powder":        2.49,
	"brown rice":          2.99,
	"toor dal":            3.49,
	"split pigeon peas":   3.49,
	"whole wheat flour":   2.99,
	"tomatoes":            2.49,
	"cumin seeds":         2.99,
	"ghee":                6.99,
	"ginger-garlic paste": 3.49,
	"green chilies":       1.99,
}

// categoryTable maps ingredient keywords to store aisles. Applies regardless
// of where the price came from.
var categoryTable = map[string]string{
	"paneer":              "Dairy",
	"cottage cheese":      "Dairy",
	"yogurt":              "Dairy",
	"milk":                "Dairy",
	"cheese":              "Dairy",
	"quinoa":              "Grains",
	"brown rice":          "Grains",
	"whole wheat flour":   "Grains",
	"bell peppers":        "Produce",
	"onions":              "Produce",
	"sweet potato":        "Produce",
	"spinach":             "Produce",
	"tomatoes":            "Produce",
	"green chilies":       "Produce",
	"chickpeas":           "Canned Goods",
	"toor dal":            "Grains & Beans",
	"split pigeon peas":   "Grains & Beans",
	"tahini":              "Condiments",
	"ginger-garlic paste": "Condiments",
	"garam masala":        "Spices",
	"turmeric":            "Spices",
	"cumin":               "Spices",
	"chili powder":        "Spices",
	"ghee":                "Cooking Oils",
}

// ProductSearcher is the catalog dependency of the grocery service. Satisfied
// by *CatalogClient; tests substitute fakes.
type ProductSearcher interface {
	Search(ctx context.Context, term string) (*types.Product, error)
}

type GroceryService struct {
	db           *gorm.DB
	catalog      ProductSearcher
	storeName    string
	storeBaseURL string
}

func NewGroceryService(db *gorm.DB, catalog ProductSearcher, storeName, storeBaseURL string) *GroceryService {
	return &GroceryService{
		db:           db,
		catalog:      catalog,
		storeName:    storeName,
		storeBaseURL: storeBaseURL,
	}
}

// cleanName strips parenthetical notes and punctuation so the bare ingredient
// name is used as the search term.
func cleanName(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '!', '?', '"', '\'', ':', ';':
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

func categorize(name string) string {
	lower := strings.ToLower(name)
	if category, ok := categoryTable[lower]; ok {
		return category
	}
	for key, category := range categoryTable {
		if strings.Contains(lower, key) {
			return category
		}
	}
	return "Other"
}

func fallbackPrice(name string) float64 {
	lower := strings.ToLower(name)
	if price, ok := fallbackPrices[lower]; ok {
		return price
	}
	for key, price := range fallbackPrices {
		if strings.Contains(lower, key) {
			return price
		}
	}
	return defaultFallbackPrice
}

// Resolve prices a single ingredient. It never returns an error: any catalog
// problem (missing credentials, search failure, no match) lands on the static
// fallback table.
func (s *GroceryService) Resolve(ctx context.Context, ingredient types.Ingredient) types.ResolvedItem {
	item := types.ResolvedItem{
		Name:      ingredient.Name,
		Quantity:  ingredient.Quantity,
		Category:  categorize(ingredient.Name),
		Available: true,
	}

	term := cleanName(ingredient.Name)
	if term != "" && s.catalog != nil {
		product, err := s.catalog.Search(ctx, term)
		if err == nil && product != nil {
			item.Product = product
			item.UnitPrice = product.Price
			item.Source = types.SourceCatalog
			return item
		}
		if err != nil && !errors.Is(err, ErrNotConfigured) && !errors.Is(err, ErrNoMatch) {
			log.Printf("[GroceryService] catalog lookup failed for %q, using fallback: %v", term, err)
		}
	}

	item.UnitPrice = fallbackPrice(ingredient.Name)
	item.Source = types.SourceFallback
	return item
}

// BuildList resolves every ingredient and aggregates the result. Ingredient
// counts are small so resolution is sequential.
func (s *GroceryService) BuildList(ctx context.Context, ingredients []types.Ingredient) *types.GroceryListResult {
	items := make([]types.ResolvedItem, 0, len(ingredients))
	var totalCost float64
	catalogHits := 0

	for _, ingredient := range ingredients {
		item := s.Resolve(ctx, ingredient)
		items = append(items, item)
		totalCost += item.UnitPrice * item.Quantity.Multiplier()
		if item.Source == types.SourceCatalog {
			catalogHits++
		}
	}

	totalCost = math.Round(totalCost*100) / 100

	return &types.GroceryListResult{
		Store:           s.storeName,
		Items:           items,
		TotalCost:       totalCost,
		CatalogHitCount: catalogHits,
		TotalCount:      len(items),
		CartURL:         s.cartURL(items),
		Message: fmt.Sprintf("Created grocery list with %d items (%d/%d prices from catalog). Total: $%.2f",
			len(items), catalogHits, len(items), totalCost),
	}
}

// cartURL builds a deterministic link to the store cart listing the resolved
// item names.
func (s *GroceryService) cartURL(items []types.ResolvedItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return s.storeBaseURL + "?items=" + url.QueryEscape(strings.Join(names, ","))
}

// CreateList builds a list from a recipe's ingredients and persists it.
func (s *GroceryService) CreateList(ctx context.Context, userID uuid.UUID, recipeID *uuid.UUID, name string, ingredients []types.Ingredient) (*models.GroceryList, *types.GroceryListResult, error) {
	result := s.BuildList(ctx, ingredients)

	list := models.GroceryList{
		UserID:    userID,
		RecipeID:  recipeID,
		Name:      name,
		Store:     result.Store,
		TotalCost: result.TotalCost,
		CartURL:   result.CartURL,
		Items:     models.JSONResolvedItems(result.Items),
	}
	if err := s.db.WithContext(ctx).Create(&list).Error; err != nil {
		return nil, nil, fmt.Errorf("saving grocery list: %w", err)
	}

	return &list, result, nil
}

// ListsForUser returns the user's grocery lists, newest first.
func (s *GroceryService) ListsForUser(ctx context.Context, userID uuid.UUID) ([]models.GroceryList, error) {
	var lists []models.GroceryList
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

// Complete marks a list as done. Only the owning user may complete it.
func (s *GroceryService) Complete(ctx context.Context, userID, listID uuid.UUID) (*models.GroceryList, error) {
	var list models.GroceryList
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listID, userID).
		First(&list).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	list.IsCompleted = true
	list.CompletedAt = &now
	if err := s.db.WithContext(ctx).Save(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}
