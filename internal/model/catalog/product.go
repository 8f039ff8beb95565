package catalog

// ProductSearchResult is the structured payload of a "product" response.
// Keys of Results are the search keywords the assistant extracted.
type ProductSearchResult struct {
	Keywords []string                 `json:"keywords,omitempty"`
	Results  map[string]KeywordResult `json:"results"`
}

// KeywordResult holds the outcome of a single keyword lookup: either an
// error description, a zero-count miss, or a list of matched products.
type KeywordResult struct {
	Error      string    `json:"error,omitempty"`
	TotalCount int       `json:"total_count"`
	Products   []Product `json:"products,omitempty"`
}

// Product mirrors the Magento catalog item shape the assistant forwards.
type Product struct {
	SKU        string      `json:"sku"`
	Name       string      `json:"name"`
	SmallImage *Image      `json:"small_image,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
}

// Image carries a product thumbnail location.
type Image struct {
	URL string `json:"url"`
}

// PriceRange nests the regular price the way the catalog API exposes it.
type PriceRange struct {
	MinimumPrice MinimumPrice `json:"minimum_price"`
}

// MinimumPrice wraps the regular price entry.
type MinimumPrice struct {
	RegularPrice RegularPrice `json:"regular_price"`
}

// RegularPrice is a money amount with its currency code.
type RegularPrice struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Price returns the listed regular price, or ok=false when the product
// carries no price information at all.
func (p Product) Price() (RegularPrice, bool) {
	if p.PriceRange == nil {
		return RegularPrice{}, false
	}
	return p.PriceRange.MinimumPrice.RegularPrice, true
}
