package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/megamarket/assistant-widget/internal/action"
	"github.com/megamarket/assistant-widget/internal/model/conversation"
	"github.com/megamarket/assistant-widget/internal/render"
)

// Command kinds accepted by Apply.
const (
	CommandSubmit      = "submit"
	CommandRetryProbe  = "retry_connectivity"
	CommandCartAction  = "cart_action"
	CommandOrderAction = "order_action"
)

// ErrUnknownCommand rejects command kinds the machine does not understand.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one explicit UI event routed into the state machine. Keeping
// the machine the single consumer of these messages means the transport
// layer (REST, websocket) carries no conversation logic of its own.
type Command struct {
	Kind    string `json:"kind"`
	Text    string `json:"text,omitempty"`
	SKU     string `json:"sku,omitempty"`
	OrderID string `json:"orderId,omitempty"`
	Action  string `json:"action,omitempty"`
}

// Apply consumes one command. Validation rejections come back as sentinel
// errors so callers can drop them silently.
func (s *Service) Apply(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CommandSubmit:
		return s.Submit(ctx, cmd.Text)
	case CommandRetryProbe:
		s.CheckConnectivity(ctx)
		return nil
	case CommandCartAction:
		return s.AddToCart(ctx, cmd.SKU)
	case CommandOrderAction:
		return s.OrderAction(ctx, cmd.Action, cmd.OrderID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}

// AddToCart forwards an add-to-cart intent for the given SKU and posts a
// confirmation turn. No cart state changes here; the sink owns that.
func (s *Service) AddToCart(ctx context.Context, sku string) error {
	if sku == "" {
		return ErrEmptyMessage
	}

	if err := s.actions.Dispatch(ctx, action.Action{Kind: action.KindAddToCart, SKU: sku}); err != nil {
		log.Printf("[conversation] cart sink failed for sku=%s: %v", sku, err)
	}

	s.appendTurn(conversation.Turn{
		Role: conversation.RoleAssistant,
		Text: fmt.Sprintf("Đã thêm sản phẩm %s vào giỏ hàng của bạn.", sku),
		Type: conversation.ResponseNone,
	})
	return nil
}

// OrderAction forwards a track or cancel intent for an order and posts a
// confirmation turn describing the simulated effect.
func (s *Service) OrderAction(ctx context.Context, kind, orderID string) error {
	if orderID == "" {
		return ErrEmptyMessage
	}

	var sinkKind, confirmation string
	switch kind {
	case render.OrderActionTrack:
		sinkKind = action.KindTrackOrder
		confirmation = fmt.Sprintf("Yêu cầu theo dõi đơn hàng #%s đã được ghi nhận.", orderID)
	case render.OrderActionCancel:
		sinkKind = action.KindCancelOrder
		confirmation = fmt.Sprintf("Yêu cầu hủy đơn hàng #%s đã được ghi nhận.", orderID)
	default:
		return fmt.Errorf("%w: order action %q", ErrUnknownCommand, kind)
	}

	if err := s.actions.Dispatch(ctx, action.Action{Kind: sinkKind, OrderID: orderID}); err != nil {
		log.Printf("[conversation] order sink failed for order=%s: %v", orderID, err)
	}

	s.appendTurn(conversation.Turn{
		Role: conversation.RoleAssistant,
		Text: confirmation,
		Type: conversation.ResponseNone,
	})
	return nil
}
