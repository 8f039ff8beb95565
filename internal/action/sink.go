// Package action defines the boundary to the cart/order-mutation
// collaborator. The widget only forwards intents and renders confirmations;
// the real mutation lives behind this interface.
package action

import (
	"context"
	"log"
)

// Kinds of forwarded intents.
const (
	KindAddToCart   = "add_to_cart"
	KindTrackOrder  = "track"
	KindCancelOrder = "cancel"
)

// Action is one forwarded user intent.
type Action struct {
	Kind    string `json:"action"`
	SKU     string `json:"sku,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}

// Sink accepts forwarded intents.
type Sink interface {
	Dispatch(ctx context.Context, a Action) error
}

// LogSink records intents without mutating anything. It is the default
// collaborator until a real cart/order backend is injected.
type LogSink struct{}

// Dispatch logs the intent and reports success.
func (LogSink) Dispatch(_ context.Context, a Action) error {
	switch a.Kind {
	case KindAddToCart:
		log.Printf("[action] add_to_cart sku=%s", a.SKU)
	default:
		log.Printf("[action] %s order=%s", a.Kind, a.OrderID)
	}
	return nil
}
