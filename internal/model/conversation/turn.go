package conversation

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ResponseType tags the structured payload attached to an assistant turn.
type ResponseType string

const (
	ResponseNone    ResponseType = "none"
	ResponseProduct ResponseType = "product"
	ResponseOrder   ResponseType = "order"
)

// Turn is one exchange unit in the conversation. Turns are append-only:
// once recorded they are never mutated or removed for the life of the widget.
type Turn struct {
	ID        string          `json:"id"`
	Role      Role            `json:"role"`
	Text      string          `json:"text"`
	Type      ResponseType    `json:"type,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
