package conversation

// State is a consistent snapshot of the controller's observable state.
// AwaitingReply is true strictly between an accepted submission and the
// assistant turn (or failure turn) that answers it.
type State struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId,omitempty"`
	Turns          []Turn `json:"turns"`
	AwaitingReply  bool   `json:"awaitingReply"`
	Online         bool   `json:"online"`
}
