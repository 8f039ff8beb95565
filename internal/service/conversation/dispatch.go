package conversation

import (
	"github.com/megamarket/assistant-widget/internal/assistant"
	"github.com/megamarket/assistant-widget/internal/model/conversation"
	"github.com/megamarket/assistant-widget/internal/render"
)

// dispatch routes a decoded response to the matching structured panel.
// Panels are mutually exclusive: every dispatch clears whatever was shown
// before deciding what, if anything, replaces it. The response message text
// itself is already on the log by the time this runs.
func (s *Service) dispatch(resp *assistant.Response) {
	s.surface.ClearPanels()

	switch resp.Type {
	case conversation.ResponseProduct:
		if resp.Product != nil {
			s.surface.ShowProductPanel(render.BuildProductView(*resp.Product))
		}
	case conversation.ResponseOrder:
		if resp.Order != nil {
			s.surface.ShowOrderPanel(render.BuildOrderView(*resp.Order))
		}
	}
}
