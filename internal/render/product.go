package render

import (
	"sort"

	"github.com/megamarket/assistant-widget/internal/model/catalog"
)

// ThumbnailFallbackURL is shown when a product image is missing or fails
// to load.
const ThumbnailFallbackURL = "/static/img/product-placeholder.png"

// noResultsNotice is shown for a keyword that matched nothing.
const noResultsNotice = "Không tìm thấy sản phẩm nào"

// ProductView is the display model of a product-search payload, one section
// per keyword in the order the assistant listed them.
type ProductView struct {
	Sections []KeywordSection `json:"sections"`
}

// KeywordSection renders one keyword's outcome: an error line, a no-results
// notice, or a scrollable row of product cards.
type KeywordSection struct {
	Keyword string        `json:"keyword"`
	Error   string        `json:"error,omitempty"`
	Notice  string        `json:"notice,omitempty"`
	Cards   []ProductCard `json:"cards,omitempty"`
}

// ProductCard is one product tile.
type ProductCard struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	PriceLabel   string `json:"priceLabel"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FallbackURL  string `json:"fallbackUrl"`
}

// BuildProductView maps a product-search payload to its display model.
func BuildProductView(result catalog.ProductSearchResult) ProductView {
	view := ProductView{Sections: make([]KeywordSection, 0, len(result.Results))}

	for _, keyword := range orderedKeywords(result) {
		entry := result.Results[keyword]
		section := KeywordSection{Keyword: keyword}

		switch {
		case entry.Error != "":
			section.Error = entry.Error
		case entry.TotalCount == 0 || len(entry.Products) == 0:
			section.Notice = noResultsNotice
		default:
			section.Cards = make([]ProductCard, 0, len(entry.Products))
			for _, product := range entry.Products {
				section.Cards = append(section.Cards, buildCard(product))
			}
		}

		view.Sections = append(view.Sections, section)
	}

	return view
}

func buildCard(product catalog.Product) ProductCard {
	card := ProductCard{
		SKU:          product.SKU,
		Name:         product.Name,
		PriceLabel:   priceNoticeContact,
		ThumbnailURL: ThumbnailFallbackURL,
		FallbackURL:  ThumbnailFallbackURL,
	}

	if price, ok := product.Price(); ok {
		currency := price.Currency
		if currency == "" {
			currency = catalog.DefaultCurrency
		}
		card.PriceLabel = FormatPrice(price.Value, currency)
	}

	if product.SmallImage != nil && product.SmallImage.URL != "" {
		card.ThumbnailURL = product.SmallImage.URL
	}

	return card
}

// orderedKeywords follows the payload's keyword list when present and falls
// back to a sorted traversal so the sections stay deterministic.
func orderedKeywords(result catalog.ProductSearchResult) []string {
	if len(result.Keywords) > 0 {
		keywords := make([]string, 0, len(result.Keywords))
		seen := make(map[string]bool, len(result.Keywords))
		for _, keyword := range result.Keywords {
			if _, ok := result.Results[keyword]; ok && !seen[keyword] {
				keywords = append(keywords, keyword)
				seen[keyword] = true
			}
		}
		var rest []string
		for keyword := range result.Results {
			if !seen[keyword] {
				rest = append(rest, keyword)
			}
		}
		sort.Strings(rest)
		return append(keywords, rest...)
	}

	keywords := make([]string, 0, len(result.Results))
	for keyword := range result.Results {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}
