package render

import "github.com/megamarket/assistant-widget/internal/model/conversation"

// Surface is the UI collaborator the controller renders into. The widget's
// websocket hub implements it for real browsers; tests supply fakes. The
// controller only ever pushes through this interface and never reads UI
// state back.
type Surface interface {
	// AppendTurn adds one turn to the message log.
	AppendTurn(turn conversation.Turn)
	// SetInputEnabled toggles the input control alongside awaitingReply.
	SetInputEnabled(enabled bool)
	// SetConnectivity updates the connectivity badge.
	SetConnectivity(online bool)
	// ShowProductPanel displays the product results panel. Any order panel
	// is already cleared by the time this is called.
	ShowProductPanel(view ProductView)
	// ShowOrderPanel displays the order detail panel.
	ShowOrderPanel(view OrderView)
	// ClearPanels hides all structured panels. Safe to call when none is
	// shown.
	ClearPanels()
}
