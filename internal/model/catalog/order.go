package catalog

import "strings"

// DefaultCurrency applies when an order payload omits its currency code.
const DefaultCurrency = "VND"

// OrderDetail is the structured payload of an "order" response.
type OrderDetail struct {
	OrderID  string      `json:"order_id"`
	Status   string      `json:"status"`
	Date     string      `json:"order_date,omitempty"`
	Currency string      `json:"currency,omitempty"`
	Items    []OrderItem `json:"items"`
	Total    *float64    `json:"total,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// DisplayTotal returns the order total: the explicit override when present,
// otherwise the sum of quantity times unit price over all items.
func (o OrderDetail) DisplayTotal() float64 {
	if o.Total != nil {
		return *o.Total
	}
	var total float64
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// DisplayCurrency returns the order currency, defaulting when absent.
func (o OrderDetail) DisplayCurrency() string {
	if o.Currency == "" {
		return DefaultCurrency
	}
	return o.Currency
}

// orderStatusLabels maps known backend status codes to the Vietnamese
// labels shown on the status badge.
var orderStatusLabels = map[string]string{
	"processing":      "đang xử lý",
	"pending":         "chờ xác nhận",
	"pending_payment": "chờ thanh toán",
	"on_hold":         "tạm giữ",
	"completed":       "đã hoàn thành",
	"shipped":         "đang giao hàng",
	"canceled":        "đã hủy",
	"refunded":        "đã hoàn tiền",
}

// StatusLabel resolves the localized label for an order status.
// Unrecognized codes pass through verbatim.
func StatusLabel(status string) string {
	if label, ok := orderStatusLabels[strings.ToLower(status)]; ok {
		return label
	}
	return status
}
