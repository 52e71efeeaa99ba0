package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/agentic-grocery/backend/internal/models"
	"github.com/pageza/agentic-grocery/backend/internal/service"
	"github.com/pageza/agentic-grocery/backend/internal/testhelpers"
	"github.com/pageza/agentic-grocery/backend/internal/types"
)

// fakeSearcher lets each test script the catalog outcome.
type fakeSearcher struct {
	product *types.Product
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, term string) (*types.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func ing(name, quantity string) types.Ingredient {
	return types.Ingredient{Name: name, Quantity: types.Quantity{Value: quantity}}
}

func newGroceryService(t *testing.T, searcher service.ProductSearcher) *service.GroceryService {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return service.NewGroceryService(db, searcher, "Kroger", "https://www.kroger.com/cart")
}

func TestResolveFallbackWithoutCredentials(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{err: service.ErrNotConfigured})

	item := svc.Resolve(context.Background(), ing("paneer", "200g"))

	assert.Equal(t, types.SourceFallback, item.Source)
	assert.Equal(t, "Dairy", item.Category)
	assert.Equal(t, 4.99, item.UnitPrice)
	assert.Nil(t, item.Product)
}

func TestResolveFallbackOnEmptySearchResult(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{err: service.ErrNoMatch})

	item := svc.Resolve(context.Background(), ing("quinoa", "1/2 cup"))

	assert.Equal(t, types.SourceFallback, item.Source)
	assert.Equal(t, "Grains", item.Category)
	assert.Equal(t, 3.49, item.UnitPrice)
}

func TestResolveFallbackOnProviderError(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{err: errors.New("connection refused")})

	item := svc.Resolve(context.Background(), ing("tahini", "2 tbsp"))

	assert.Equal(t, types.SourceFallback, item.Source)
	assert.Equal(t, 5.99, item.UnitPrice)
}

func TestResolveCatalogHit(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{product: &types.Product{
		ProductID:   "0001111041700",
		Description: "Kroger Traditional Paneer",
		Brand:       "Kroger",
		Price:       4.49,
	}})

	item := svc.Resolve(context.Background(), ing("paneer (cottage cheese)", "200g"))

	assert.Equal(t, types.SourceCatalog, item.Source)
	assert.Equal(t, 4.49, item.UnitPrice)
	require.NotNil(t, item.Product)
	assert.Equal(t, "0001111041700", item.Product.ProductID)
	// Category comes from the keyword table regardless of price source.
	assert.Equal(t, "Dairy", item.Category)
}

func TestResolveUnknownIngredientDefaults(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{err: service.ErrNotConfigured})

	item := svc.Resolve(context.Background(), ing("dragon fruit syrup", "1 bottle"))

	assert.Equal(t, types.SourceFallback, item.Source)
	assert.Equal(t, "Other", item.Category)
	assert.Equal(t, 3.99, item.UnitPrice)
}

func TestBuildListTotalsRoundTrip(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{err: service.ErrNotConfigured})

	ingredients := []types.Ingredient{
		ing("paneer", "200g"),
		ing("quinoa", "1/2 cup"),
		ing("green chilies", "2"),
	}

	result := svc.BuildList(context.Background(), ingredients)

	require.Len(t, result.Items, 3)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 0, result.CatalogHitCount)

	var sum float64
	for _, item := range result.Items {
		sum += item.UnitPrice * item.Quantity.Multiplier()
	}
	assert.InDelta(t, sum, result.TotalCost, 0.001)

	// "2" green chilies is a bare count and scales the unit price.
	assert.InDelta(t, 4.99+3.49+2*1.99, result.TotalCost, 0.001)
}

func TestBuildListCatalogHitCount(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{product: &types.Product{
		ProductID:   "42",
		Description: "Simple Truth Organic Spinach",
		Price:       2.79,
	}})

	result := svc.BuildList(context.Background(), []types.Ingredient{
		ing("spinach", "2 cups"),
		ing("cumin", "1 tsp"),
	})

	assert.Equal(t, 2, result.CatalogHitCount)
	assert.Contains(t, result.Message, "2/2")
}

func TestBuildListCartURL(t *testing.T) {
	svc := newGroceryService(t, &fakeSearcher{err: service.ErrNotConfigured})

	result := svc.BuildList(context.Background(), []types.Ingredient{
		ing("bell peppers", "1 cup"),
		ing("garam masala", "1 tsp"),
	})

	parsed, err := url.Parse(result.CartURL)
	require.NoError(t, err)
	assert.Equal(t, "www.kroger.com", parsed.Host)
	assert.Equal(t, "bell peppers,garam masala", parsed.Query().Get("items"))
}

func TestCreateListPersistsAndCompletes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewGroceryService(db, &fakeSearcher{err: service.ErrNotConfigured}, "Kroger", "https://www.kroger.com/cart")

	authSvc := service.NewAuthService(db, "test-secret")
	user, _, err := authSvc.Register("shopper@example.com", "shopper", "password123")
	require.NoError(t, err)

	list, result, err := svc.CreateList(context.Background(), user.ID, nil, "Weekly shop", []types.Ingredient{
		ing("paneer", "200g"),
		ing("onions", "1 medium"),
	})
	require.NoError(t, err)
	assert.Equal(t, result.TotalCost, list.TotalCost)
	assert.False(t, list.IsCompleted)

	lists, err := svc.ListsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)

	var stored models.GroceryList
	require.NoError(t, db.First(&stored, "id = ?", list.ID).Error)
	assert.Len(t, []types.ResolvedItem(stored.Items), 2)

	completed, err := svc.Complete(context.Background(), user.ID, list.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	require.NotNil(t, completed.CompletedAt)
}

func TestCompleteRejectsOtherUsersList(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewGroceryService(db, &fakeSearcher{err: service.ErrNotConfigured}, "Kroger", "https://www.kroger.com/cart")

	authSvc := service.NewAuthService(db, "test-secret")
	owner, _, err := authSvc.Register("owner@example.com", "owner", "password123")
	require.NoError(t, err)
	other, _, err := authSvc.Register("other@example.com", "other", "password123")
	require.NoError(t, err)

	list, _, err := svc.CreateList(context.Background(), owner.ID, nil, "Private", []types.Ingredient{ing("ghee", "1 tbsp")})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), other.ID, list.ID)
	assert.Error(t, err)
}
