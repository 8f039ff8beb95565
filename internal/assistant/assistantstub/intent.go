package assistantstub

import (
	"regexp"
	"sort"
	"strings"
)

// Intent kinds recognized by the stub.
const (
	intentProductSearch = "product_search"
	intentOrderStatus   = "order_status"
	intentFallback      = "fallback"
)

type intent struct {
	Kind     string
	Keywords []string
	OrderID  string
}

var orderIDPattern = regexp.MustCompile(`\d{4,}`)

var productTriggers = []string{"tìm", "sản phẩm", "mua", "giá", "search"}

var orderTriggers = []string{"đơn hàng", "đơn", "order", "kiểm tra"}

// analyzeIntent classifies a message with the same keyword heuristics the
// production backend falls back to when its model is unavailable.
func analyzeIntent(message string) intent {
	lowered := strings.ToLower(message)

	if containsAny(lowered, orderTriggers) {
		if id := orderIDPattern.FindString(lowered); id != "" {
			return intent{Kind: intentOrderStatus, OrderID: id}
		}
		// An order question without an id still routes to order handling
		// so the reply can ask for one.
		if strings.Contains(lowered, "đơn hàng") || strings.Contains(lowered, "order") {
			return intent{Kind: intentOrderStatus}
		}
	}

	if containsAny(lowered, productTriggers) {
		return intent{Kind: intentProductSearch, Keywords: extractKeywords(lowered)}
	}

	return intent{Kind: intentFallback}
}

// extractKeywords matches the message against known catalog keywords and
// falls back to the last token so unknown searches still produce a
// zero-count result section.
func extractKeywords(lowered string) []string {
	var keywords []string
	for keyword := range fixtureCatalog {
		if strings.Contains(lowered, keyword) {
			keywords = append(keywords, keyword)
		}
	}
	if len(keywords) > 0 {
		sort.Strings(keywords)
		return keywords
	}

	fields := strings.Fields(lowered)
	if len(fields) == 0 {
		return nil
	}
	return []string{fields[len(fields)-1]}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
