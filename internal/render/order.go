package render

import (
	"github.com/megamarket/assistant-widget/internal/model/catalog"
)

// dateUnavailable is shown when the payload carries no order date.
const dateUnavailable = "Chưa có thông tin"

// Order action kinds exposed by the panel's controls.
const (
	OrderActionTrack  = "track"
	OrderActionCancel = "cancel"
)

// OrderView is the display model of an order payload.
type OrderView struct {
	OrderID     string      `json:"orderId"`
	Status      string      `json:"status"`
	StatusLabel string      `json:"statusLabel"`
	DateLabel   string      `json:"dateLabel"`
	Lines       []OrderLine `json:"lines"`
	TotalLabel  string      `json:"totalLabel"`
	Actions     []string    `json:"actions"`
}

// OrderLine is one rendered item row.
type OrderLine struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unitPrice"`
	LineTotal     string `json:"lineTotal"`
	QuantityLabel string `json:"quantityLabel"`
}

// BuildOrderView maps an order payload to its display model. The total is
// the payload override when present, otherwise the sum over item lines.
func BuildOrderView(order catalog.OrderDetail) OrderView {
	currency := order.DisplayCurrency()

	view := OrderView{
		OrderID:     order.OrderID,
		Status:      order.Status,
		StatusLabel: catalog.StatusLabel(order.Status),
		DateLabel:   order.Date,
		Lines:       make([]OrderLine, 0, len(order.Items)),
		TotalLabel:  FormatPrice(order.DisplayTotal(), currency),
		Actions:     []string{OrderActionTrack, OrderActionCancel},
	}
	if view.DateLabel == "" {
		view.DateLabel = dateUnavailable
	}

	for _, item := range order.Items {
		view.Lines = append(view.Lines, OrderLine{
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     FormatPrice(item.Price, currency),
			LineTotal:     FormatPrice(float64(item.Quantity)*item.Price, currency),
			QuantityLabel: quantityLabel(item.Quantity),
		})
	}

	return view
}

func quantityLabel(quantity int) string {
	return pricePrinter.Sprintf("x%d", quantity)
}
