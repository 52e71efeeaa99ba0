package types

// PriceSource records which path produced an item's price.
const (
	SourceCatalog  = "catalog"
	SourceFallback = "fallback"
)

// Product is a single catalog search hit.
type Product struct {
	ProductID   string  `json:"product_id"`
	Description string  `json:"description"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
}

// ResolvedItem is an ingredient annotated with a price, category and source
// after resolution against the catalog or the fallback table.
type ResolvedItem struct {
	Name      string   `json:"name"`
	Quantity  Quantity `json:"quantity"`
	Category  string   `json:"category"`
	UnitPrice float64  `json:"unit_price"`
	Source    string   `json:"source"`
	Product   *Product `json:"product,omitempty"`
	Available bool     `json:"available"`
}

// GroceryListResult is the aggregate returned by list construction.
type GroceryListResult struct {
	Store           string         `json:"store"`
	Items           []ResolvedItem `json:"items"`
	TotalCost       float64        `json:"total_estimated_cost"`
	CatalogHitCount int            `json:"catalog_hit_count"`
	TotalCount      int            `json:"total_count"`
	CartURL         string         `json:"cart_url"`
	Message         string         `json:"message"`
}
