package domain

// Product is the canonical storefront product produced by the feed
// transformer. The JSON field names are the storefront's wire format and
// must stay stable across syncs.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Excerpt     string   `json:"excerpt"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"salePrice,omitempty"`
	Images      []string `json:"images"`
	Categories  []string `json:"categories"`
	Color       string   `json:"color,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`
	Material    string   `json:"material,omitempty"`
	InStock     bool     `json:"inStock"`
	Stock       int      `json:"stock"`
}
