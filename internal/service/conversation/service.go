package conversation

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/megamarket/assistant-widget/internal/action"
	"github.com/megamarket/assistant-widget/internal/assistant"
	"github.com/megamarket/assistant-widget/internal/model/conversation"
	"github.com/megamarket/assistant-widget/internal/render"
)

var (
	// ErrEmptyMessage rejects submissions that are empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrAwaitingReply rejects submissions while a reply is pending.
	ErrAwaitingReply = errors.New("a reply is already pending")
	// ErrUserAlreadySet rejects a second identity assignment.
	ErrUserAlreadySet = errors.New("user identity is already set")
)

// User-facing notices, matching the assistant backend's tone.
const (
	failureNotice = "Xin lỗi, đã có lỗi xảy ra khi kết nối với trợ lý. Vui lòng thử lại sau."
	offlineNotice = "Xin lỗi, hiện không thể kết nối với trợ lý Mega Market. Một số tính năng có thể không khả dụng."
)

// Transport sends user messages to the remote assistant and probes its
// reachability. *assistant.Client is the production implementation.
type Transport interface {
	Send(ctx context.Context, text, sessionID, userID string) (*assistant.Response, error)
	Probe(ctx context.Context) error
}

// Service is the conversation state machine. It exclusively owns the turn
// sequence and the awaiting-reply flag; renderers and transport never write
// either directly. One Service backs one widget instance.
type Service struct {
	mu            sync.Mutex
	id            string
	userID        string
	turns         []conversation.Turn
	awaitingReply bool
	online        bool

	transport Transport
	surface   render.Surface
	actions   action.Sink
}

// NewService creates a controller with a fresh conversation identifier.
func NewService(transport Transport, surface render.Surface, actions action.Sink) *Service {
	if actions == nil {
		actions = action.LogSink{}
	}
	return &Service{
		id:        uuid.NewString(),
		transport: transport,
		surface:   surface,
		actions:   actions,
	}
}

// ConversationID returns the per-instance conversation identifier.
func (s *Service) ConversationID() string {
	return s.id
}

// SetUserIdentity records the externally supplied user identity. It may be
// set at most once for the session.
func (s *Service) SetUserIdentity(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != "" {
		return ErrUserAlreadySet
	}
	s.userID = userID
	return nil
}

// Snapshot returns a consistent copy of the observable state.
func (s *Service) Snapshot() conversation.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]conversation.Turn, len(s.turns))
	copy(turns, s.turns)
	return conversation.State{
		ConversationID: s.id,
		UserID:         s.userID,
		Turns:          turns,
		AwaitingReply:  s.awaitingReply,
		Online:         s.online,
	}
}

// CheckConnectivity probes the assistant endpoint and reflects the result
// on the surface. The check is advisory: a failed probe posts one offline
// notice but does not gate later submissions, which fail through the
// transport path on their own if the service is really down. Called once at
// startup and again on an explicit retry command.
func (s *Service) CheckConnectivity(ctx context.Context) bool {
	err := s.transport.Probe(ctx)

	s.mu.Lock()
	wasOnline := s.online
	firstCheck := len(s.turns) == 0
	s.online = err == nil
	s.mu.Unlock()

	s.surface.SetConnectivity(err == nil)

	if err != nil {
		log.Printf("[conversation] assistant unreachable: %v", err)
		if wasOnline || firstCheck {
			s.appendTurn(conversation.Turn{
				Role: conversation.RoleAssistant,
				Text: offlineNotice,
				Type: conversation.ResponseNone,
			})
		}
		return false
	}
	return true
}

// Submit runs one user turn through the machine: validate, record the user
// turn, call the transport, and record the assistant turn or the failure
// notice. Rejections (empty text, reply pending) leave the state untouched
// and are reported as sentinel errors for the caller to drop or map.
// Transport failures are absorbed into a fallback turn and never returned.
func (s *Service) Submit(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.awaitingReply {
		s.mu.Unlock()
		return ErrAwaitingReply
	}
	s.awaitingReply = true
	userID := s.userID
	userTurn := s.record(conversation.Turn{
		Role: conversation.RoleUser,
		Text: trimmed,
		Type: conversation.ResponseNone,
	})
	s.mu.Unlock()

	s.surface.AppendTurn(userTurn)
	s.surface.SetInputEnabled(false)

	resp, err := s.transport.Send(ctx, trimmed, s.id, userID)
	if err != nil {
		log.Printf("[conversation] transport failure: %v", err)
		s.concludeTurn(conversation.Turn{
			Role: conversation.RoleAssistant,
			Text: failureNotice,
			Type: conversation.ResponseNone,
		})
		return nil
	}

	s.concludeTurn(conversation.Turn{
		Role:    conversation.RoleAssistant,
		Text:    resp.Message,
		Type:    resp.Type,
		Payload: resp.Raw,
	})
	s.dispatch(resp)
	return nil
}

// concludeTurn appends the assistant turn and returns the machine to Idle.
// Ordering is fixed: turn append happens before the flag flip, which
// happens before any dispatch by the caller.
func (s *Service) concludeTurn(turn conversation.Turn) {
	s.mu.Lock()
	recorded := s.record(turn)
	s.awaitingReply = false
	s.mu.Unlock()

	s.surface.AppendTurn(recorded)
	s.surface.SetInputEnabled(true)
}

// appendTurn records a turn outside the submit cycle (system notices,
// action confirmations).
func (s *Service) appendTurn(turn conversation.Turn) {
	s.mu.Lock()
	recorded := s.record(turn)
	s.mu.Unlock()

	s.surface.AppendTurn(recorded)
}

// record assigns identity and timestamp and appends. Callers hold s.mu.
func (s *Service) record(turn conversation.Turn) conversation.Turn {
	turn.ID = uuid.NewString()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	s.turns = append(s.turns, turn)
	return turn
}
