package conversation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/megamarket/assistant-widget/internal/action"
	"github.com/megamarket/assistant-widget/internal/assistant"
	modelconv "github.com/megamarket/assistant-widget/internal/model/conversation"
	"github.com/megamarket/assistant-widget/internal/render"
	conversation "github.com/megamarket/assistant-widget/internal/service/conversation"
)

// fakeTransport scripts transport outcomes for the machine under test.
type fakeTransport struct {
	mu       sync.Mutex
	response *assistant.Response
	err      error
	probeErr error
	calls    int
	// block, when non-nil, holds Send until closed.
	block chan struct{}
}

func (f *fakeTransport) Send(ctx context.Context, text, sessionID, userID string) (*assistant.Response, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeTransport) Probe(ctx context.Context) error {
	return f.probeErr
}

func (f *fakeTransport) sendCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSurface records every event the controller pushes.
type fakeSurface struct {
	mu            sync.Mutex
	turns         []modelconv.Turn
	inputEnabled  []bool
	connectivity  []bool
	productPanels []render.ProductView
	orderPanels   []render.OrderView
	clears        int
}

func (f *fakeSurface) AppendTurn(turn modelconv.Turn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, turn)
}

func (f *fakeSurface) SetInputEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputEnabled = append(f.inputEnabled, enabled)
}

func (f *fakeSurface) SetConnectivity(online bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectivity = append(f.connectivity, online)
}

func (f *fakeSurface) ShowProductPanel(view render.ProductView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productPanels = append(f.productPanels, view)
}

func (f *fakeSurface) ShowOrderPanel(view render.OrderView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderPanels = append(f.orderPanels, view)
}

func (f *fakeSurface) ClearPanels() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func textResponse(message string) *assistant.Response {
	return &assistant.Response{Message: message, Type: modelconv.ResponseNone}
}

func productResponse(t *testing.T) *assistant.Response {
	t.Helper()
	body := `{"results": {"áo": {"total_count": 1, "products": [{"sku": "A1", "name": "Áo thun"}]}}}`
	resp, err := assistant.DecodeResponse(newResponseReader(t, "product", body))
	if err != nil {
		t.Fatalf("build product response: %v", err)
	}
	return resp
}

func orderResponse(t *testing.T) *assistant.Response {
	t.Helper()
	body := `{"order_id": "1000123", "status": "shipped", "items": [{"name": "Áo", "quantity": 1, "price": 1000}]}`
	resp, err := assistant.DecodeResponse(newResponseReader(t, "order", body))
	if err != nil {
		t.Fatalf("build order response: %v", err)
	}
	return resp
}

func newResponseReader(t *testing.T, typ, data string) io.Reader {
	t.Helper()
	wire := map[string]json.RawMessage{
		"message": json.RawMessage(`"ok"`),
		"type":    json.RawMessage(`"` + typ + `"`),
		"data":    json.RawMessage(data),
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal wire response: %v", err)
	}
	return bytes.NewReader(raw)
}

func TestSubmitAppendsTurnsAndReturnsToIdle(t *testing.T) {
	transport := &fakeTransport{response: textResponse("Chào bạn!")}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	if err := svc.Submit(context.Background(), "  Xin chào  "); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	state := svc.Snapshot()
	if len(state.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(state.Turns))
	}
	if state.Turns[0].Role != modelconv.RoleUser || state.Turns[0].Text != "Xin chào" {
		t.Fatalf("unexpected user turn: %+v", state.Turns[0])
	}
	if state.Turns[1].Role != modelconv.RoleAssistant || state.Turns[1].Text != "Chào bạn!" {
		t.Fatalf("unexpected assistant turn: %+v", state.Turns[1])
	}
	if state.AwaitingReply {
		t.Fatal("machine should be idle after the reply")
	}

	// Input was disabled for the round-trip and re-enabled after.
	if len(surface.inputEnabled) != 2 || surface.inputEnabled[0] || !surface.inputEnabled[1] {
		t.Fatalf("unexpected input toggles: %v", surface.inputEnabled)
	}
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	transport := &fakeTransport{response: textResponse("hi")}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	for _, input := range []string{"", "   ", "\n\t"} {
		if err := svc.Submit(context.Background(), input); !errors.Is(err, conversation.ErrEmptyMessage) {
			t.Fatalf("expected ErrEmptyMessage for %q, got %v", input, err)
		}
	}

	state := svc.Snapshot()
	if len(state.Turns) != 0 || state.AwaitingReply {
		t.Fatalf("rejected submissions must not change state: %+v", state)
	}
	if transport.sendCalls() != 0 {
		t.Fatalf("no transport call expected, got %d", transport.sendCalls())
	}
}

func TestSubmitWhileAwaitingIsRejected(t *testing.T) {
	transport := &fakeTransport{
		response: textResponse("done"),
		block:    make(chan struct{}),
	}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	done := make(chan error, 1)
	go func() {
		done <- svc.Submit(context.Background(), "first")
	}()

	waitFor(t, func() bool { return svc.Snapshot().AwaitingReply })

	if err := svc.Submit(context.Background(), "second"); !errors.Is(err, conversation.ErrAwaitingReply) {
		t.Fatalf("expected ErrAwaitingReply, got %v", err)
	}

	close(transport.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit err: %v", err)
	}

	state := svc.Snapshot()
	if len(state.Turns) != 2 {
		t.Fatalf("rejected submission must not add turns, got %d", len(state.Turns))
	}
	if transport.sendCalls() != 1 {
		t.Fatalf("expected a single transport call, got %d", transport.sendCalls())
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	transport := &fakeTransport{err: &assistant.TransportError{Op: "send", Err: errors.New("connection refused")}}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	// Transport failures are absorbed, not surfaced to the submitter.
	if err := svc.Submit(context.Background(), "Xin chào"); err != nil {
		t.Fatalf("Submit should absorb transport failures, got %v", err)
	}

	state := svc.Snapshot()
	if len(state.Turns) != 2 {
		t.Fatalf("expected user turn plus fallback turn, got %d", len(state.Turns))
	}
	if state.Turns[1].Role != modelconv.RoleAssistant {
		t.Fatalf("fallback turn should be assistant role: %+v", state.Turns[1])
	}
	if state.AwaitingReply {
		t.Fatal("machine must return to idle after a failure")
	}
	if len(surface.productPanels)+len(surface.orderPanels) != 0 {
		t.Fatal("no structured panel may be shown on failure")
	}
	if len(surface.inputEnabled) != 2 || !surface.inputEnabled[1] {
		t.Fatalf("input must be re-enabled after a failure: %v", surface.inputEnabled)
	}
}

func TestDispatchPanelsAreExclusive(t *testing.T) {
	transport := &fakeTransport{response: orderResponse(t)}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	if err := svc.Submit(context.Background(), "Kiểm tra đơn hàng 1000123"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if len(surface.orderPanels) != 1 || surface.clears != 1 {
		t.Fatalf("expected order panel after clear, got panels=%d clears=%d", len(surface.orderPanels), surface.clears)
	}

	transport.response = productResponse(t)
	if err := svc.Submit(context.Background(), "Tìm sản phẩm áo"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	// The second dispatch clears before showing the product panel, so the
	// order panel is gone and exactly one product panel is visible.
	if surface.clears != 2 {
		t.Fatalf("expected panels cleared before each dispatch, clears=%d", surface.clears)
	}
	if len(surface.productPanels) != 1 {
		t.Fatalf("expected product panel, got %d", len(surface.productPanels))
	}
}

func TestSubmitTextOnlyResponseClearsPanels(t *testing.T) {
	transport := &fakeTransport{response: textResponse("chỉ là chữ")}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	if err := svc.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if surface.clears != 1 {
		t.Fatalf("text-only responses still reset panels, clears=%d", surface.clears)
	}
	if len(surface.productPanels)+len(surface.orderPanels) != 0 {
		t.Fatal("no structured panel expected")
	}
}

func TestCheckConnectivityOffline(t *testing.T) {
	transport := &fakeTransport{probeErr: errors.New("unreachable")}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	if svc.CheckConnectivity(context.Background()) {
		t.Fatal("probe should report offline")
	}

	state := svc.Snapshot()
	if state.Online {
		t.Fatal("state should be offline")
	}
	if len(state.Turns) != 1 || state.Turns[0].Role != modelconv.RoleAssistant {
		t.Fatalf("expected one advisory assistant turn, got %+v", state.Turns)
	}
	if len(surface.connectivity) != 1 || surface.connectivity[0] {
		t.Fatalf("unexpected connectivity events: %v", surface.connectivity)
	}

	// A repeat probe while still offline does not duplicate the notice.
	svc.CheckConnectivity(context.Background())
	if got := len(svc.Snapshot().Turns); got != 1 {
		t.Fatalf("advisory turn must not repeat, got %d turns", got)
	}
}

func TestCheckConnectivityOnline(t *testing.T) {
	transport := &fakeTransport{}
	surface := &fakeSurface{}
	svc := conversation.NewService(transport, surface, action.LogSink{})

	if !svc.CheckConnectivity(context.Background()) {
		t.Fatal("probe should report online")
	}
	if got := len(svc.Snapshot().Turns); got != 0 {
		t.Fatalf("no turns expected on a healthy probe, got %d", got)
	}
}

func TestSetUserIdentityOnce(t *testing.T) {
	svc := conversation.NewService(&fakeTransport{}, &fakeSurface{}, action.LogSink{})

	if err := svc.SetUserIdentity("user-42"); err != nil {
		t.Fatalf("SetUserIdentity err: %v", err)
	}
	if err := svc.SetUserIdentity("someone-else"); !errors.Is(err, conversation.ErrUserAlreadySet) {
		t.Fatalf("expected ErrUserAlreadySet, got %v", err)
	}
	if got := svc.Snapshot().UserID; got != "user-42" {
		t.Fatalf("identity must be immutable, got %q", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
