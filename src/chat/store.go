// Package chat is the room multiplexer: it tracks the single room the
// client is viewing, owns all per-room derived state, and mediates every
// room-scoped event between the gateway session and the caller.
//
// All inbound events are applied on the session's read goroutine in
// transport delivery order. A guard in every reducer drops events whose
// room does not match the active room, which is also what filters stale
// events arriving after a room switch, since there is no request cancellation
// on the wire.
package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/qft-app/chatcore/src/identity"
	"github.com/qft-app/chatcore/src/room"
	"github.com/qft-app/chatcore/src/session"
	"github.com/qft-app/chatcore/src/types"
	"github.com/qft-app/chatcore/src/wire"
)

// Transport is the slice of the session the store drives. Only the store
// calls Connect/Disconnect; every other consumer of a session is limited
// to emit and subscribe.
type Transport interface {
	Connect(token string) error
	Disconnect()
	Emit(event string, payload any)
	Subscribe(event string, handler session.Handler)
	Unsubscribe(event string)
}

// TicketLister is the HTTP ticket collaborator.
type TicketLister interface {
	ListOpen(guildID, token string) ([]types.Ticket, error)
}

// Store is the chat state store. One Store exists per authenticated app
// session; it is created on login and closed on logout.
type Store struct {
	transport Transport
	tickets   TicketLister
	logger    zerolog.Logger

	mu       sync.RWMutex
	open     bool
	self     *identity.Identity
	token    string
	active   room.Address
	messages []types.Message
	presence map[string][]types.User
	threads  []types.DirectThread
	ticketL  []types.Ticket
}

// inboundEvents is every gateway event the store reduces.
var inboundEvents = [...]string{
	wire.EventChatMessage,
	wire.EventUserListUpdate,
	wire.EventMessageDeleted,
	wire.EventMessageEdited,
	wire.EventMessageHistory,
	wire.EventDirectCreated,
}

// New creates a closed store bound to a transport and ticket collaborator.
func New(transport Transport, tickets TicketLister, logger zerolog.Logger) *Store {
	return &Store{
		transport: transport,
		tickets:   tickets,
		logger:    logger.With().Str("component", "chat-store").Logger(),
		presence:  make(map[string][]types.User),
	}
}

// Open registers the event handlers and connects the session. A missing
// or expired identity is a precondition failure, not an error: the
// connection is simply not attempted.
func (s *Store) Open(self *identity.Identity, token string) error {
	if self == nil || token == "" || self.Expired(time.Now()) {
		s.logger.Debug().Msg("open skipped, no valid identity")
		return nil
	}

	s.mu.Lock()
	if s.open {
		s.mu.Unlock()
		s.logger.Debug().Msg("open ignored, store already open")
		return nil
	}
	s.open = true
	s.self = self
	s.token = token
	s.mu.Unlock()

	s.transport.Subscribe(wire.EventChatMessage, s.onChatMessage)
	s.transport.Subscribe(wire.EventUserListUpdate, s.onUserListUpdate)
	s.transport.Subscribe(wire.EventMessageDeleted, s.onMessageDeleted)
	s.transport.Subscribe(wire.EventMessageEdited, s.onMessageEdited)
	s.transport.Subscribe(wire.EventMessageHistory, s.onMessageHistory)
	s.transport.Subscribe(wire.EventDirectCreated, s.onDirectCreated)

	if err := s.transport.Connect(token); err != nil {
		s.Close()
		return err
	}

	s.logger.Info().Str("user_id", self.UserID).Msg("chat store opened")
	return nil
}

// Close deregisters all handlers, disconnects the session, and clears
// every piece of room state. Handlers from a closed store can never fire
// into a later session. Idempotent.
func (s *Store) Close() {
	for _, event := range inboundEvents {
		s.transport.Unsubscribe(event)
	}
	s.transport.Disconnect()

	s.mu.Lock()
	s.open = false
	s.self = nil
	s.token = ""
	s.active = room.Address{}
	s.messages = nil
	s.presence = make(map[string][]types.User)
	s.threads = nil
	s.ticketL = nil
	s.mu.Unlock()

	s.logger.Info().Msg("chat store closed")
}

// RefreshIdentity replaces the user's identity after a permission
// refresh. Role checks always read the current identity, so the new role
// set takes effect on the next permission-sensitive action.
func (s *Store) RefreshIdentity(self *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = self
}
