package assistantstub

import "github.com/megamarket/assistant-widget/internal/model/catalog"

func floatPtr(v float64) *float64 { return &v }

func price(value float64) *catalog.PriceRange {
	return &catalog.PriceRange{
		MinimumPrice: catalog.MinimumPrice{
			RegularPrice: catalog.RegularPrice{Value: value, Currency: "VND"},
		},
	}
}

// fixtureCatalog maps search keywords to canned Magento-shaped products.
var fixtureCatalog = map[string][]catalog.Product{
	"áo": {
		{
			SKU:        "AO-1001",
			Name:       "Áo thun cotton nam",
			SmallImage: &catalog.Image{URL: "https://cdn.megamarket.vn/img/ao-1001.jpg"},
			PriceRange: price(150000),
		},
		{
			SKU:        "AO-1002",
			Name:       "Áo sơ mi công sở",
			SmallImage: &catalog.Image{URL: "https://cdn.megamarket.vn/img/ao-1002.jpg"},
			PriceRange: price(320000),
		},
	},
	"sữa": {
		{
			SKU:        "SUA-2001",
			Name:       "Sữa tươi tiệt trùng 1L",
			SmallImage: &catalog.Image{URL: "https://cdn.megamarket.vn/img/sua-2001.jpg"},
			PriceRange: price(38000),
		},
	},
	"gạo": {
		{
			SKU:  "GAO-3001",
			Name: "Gạo ST25 túi 5kg",
			// No price on purpose: exercises the contact-us fallback.
		},
	},
}

// fixtureOrders maps order ids to canned order details.
var fixtureOrders = map[string]catalog.OrderDetail{
	"1000123": {
		OrderID: "1000123",
		Status:  "shipped",
		Date:    "2025-08-12",
		Items: []catalog.OrderItem{
			{Name: "Áo thun cotton nam", Quantity: 2, Price: 150000},
			{Name: "Sữa tươi tiệt trùng 1L", Quantity: 6, Price: 38000},
		},
	},
	"1000456": {
		OrderID:  "1000456",
		Status:   "processing",
		Currency: "VND",
		Items: []catalog.OrderItem{
			{Name: "Gạo ST25 túi 5kg", Quantity: 1, Price: 185000},
		},
		Total: floatPtr(185000),
	},
}
