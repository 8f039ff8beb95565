package assistant

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/megamarket/assistant-widget/internal/model/catalog"
	"github.com/megamarket/assistant-widget/internal/model/conversation"
)

// Response is the assistant's reply, decoded once at the transport boundary
// into a tagged union so the dispatcher can match on Type exhaustively.
// Exactly one of Product/Order is non-nil, and only when Type says so.
type Response struct {
	Message string
	Type    conversation.ResponseType
	Raw     json.RawMessage

	Product *catalog.ProductSearchResult
	Order   *catalog.OrderDetail
}

// wireResponse is the undecoded body shape.
type wireResponse struct {
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodeResponse reads and types an assistant reply. Unknown or absent type
// tags degrade to a text-only response rather than failing; a payload that
// does not decode as its declared type is an error, handled upstream as a
// transport failure.
func DecodeResponse(r io.Reader) (*Response, error) {
	var wire wireResponse
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("malformed response body: %w", err)
	}

	resp := &Response{
		Message: wire.Message,
		Type:    conversation.ResponseNone,
		Raw:     wire.Data,
	}

	switch conversation.ResponseType(wire.Type) {
	case conversation.ResponseProduct:
		if len(wire.Data) == 0 {
			return resp, nil
		}
		var result catalog.ProductSearchResult
		if err := json.Unmarshal(wire.Data, &result); err != nil {
			return nil, fmt.Errorf("malformed product payload: %w", err)
		}
		resp.Type = conversation.ResponseProduct
		resp.Product = &result
	case conversation.ResponseOrder:
		if len(wire.Data) == 0 {
			return resp, nil
		}
		var detail catalog.OrderDetail
		if err := json.Unmarshal(wire.Data, &detail); err != nil {
			return nil, fmt.Errorf("malformed order payload: %w", err)
		}
		resp.Type = conversation.ResponseOrder
		resp.Order = &detail
	}

	return resp, nil
}
