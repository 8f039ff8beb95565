package widget

import (
	"testing"
	"time"

	modelconv "github.com/megamarket/assistant-widget/internal/model/conversation"
	"github.com/megamarket/assistant-widget/internal/render"
)

func receive(t *testing.T, events <-chan outgoingMessage) outgoingMessage {
	t.Helper()
	select {
	case msg := <-events:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return outgoingMessage{}
	}
}

func TestHubBroadcastsSurfaceEvents(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.subscribe()
	defer cancel()

	hub.AppendTurn(modelconv.Turn{ID: "t1", Role: modelconv.RoleUser, Text: "hi"})
	if msg := receive(t, events); msg.Type != eventTurn {
		t.Fatalf("expected %q event, got %q", eventTurn, msg.Type)
	}

	hub.SetInputEnabled(false)
	if msg := receive(t, events); msg.Type != eventInput {
		t.Fatalf("expected %q event, got %q", eventInput, msg.Type)
	}

	hub.SetConnectivity(true)
	if msg := receive(t, events); msg.Type != eventConnectivity {
		t.Fatalf("expected %q event, got %q", eventConnectivity, msg.Type)
	}

	hub.ClearPanels()
	hub.ShowProductPanel(render.ProductView{})
	hub.ShowOrderPanel(render.OrderView{})

	for _, want := range []string{eventClearPanels, eventProductPanel, eventOrderPanel} {
		if msg := receive(t, events); msg.Type != want {
			t.Fatalf("expected %q event, got %q", want, msg.Type)
		}
	}
}

func TestHubDropsSlowSubscribers(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.subscribe()
	defer cancel()

	// Fill the buffer without draining; the hub must not block and must
	// eventually drop the subscriber.
	for i := 0; i < 64; i++ {
		hub.SetInputEnabled(true)
	}

	// The channel is closed once the subscriber is dropped; drain to the
	// closure.
	for {
		select {
		case _, open := <-events:
			if !open {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber was never dropped")
		}
	}
}
