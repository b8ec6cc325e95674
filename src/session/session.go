// Package session owns the single authenticated WebSocket connection to
// the gateway. There is exactly one logical connection per authenticated
// app session: the chat store drives Connect/Disconnect, every other
// consumer only emits and subscribes. The session object is constructed
// explicitly at the application root and passed by reference; there is
// no package-level socket.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qft-app/chatcore/src/types"
	"github.com/qft-app/chatcore/src/wire"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErrored:
		return "errored"
	default:
		return "disconnected"
	}
}

// Handler receives inbound envelopes for a subscribed event. Handlers run
// on the session's single read goroutine, in transport delivery order, so
// a handler never races another handler from the same session.
type Handler func(env wire.Envelope)

// Dialer opens an authenticated connection to the gateway. The default
// implementation dials the WebSocket endpoint; tests substitute a double.
type Dialer interface {
	Dial(token string) (types.Conn, error)
}

// Session multiplexes one gateway connection across its subscribers.
type Session struct {
	dialer Dialer
	logger zerolog.Logger

	mu       sync.RWMutex
	conn     types.Conn
	state    State
	connID   string
	handlers map[string]Handler

	// writeMu serializes frames: emits can come from any goroutine.
	writeMu sync.Mutex
}

// New creates a disconnected session using the given dialer.
func New(dialer Dialer, logger zerolog.Logger) *Session {
	return &Session{
		dialer:   dialer,
		logger:   logger.With().Str("component", "session").Logger(),
		state:    StateDisconnected,
		handlers: make(map[string]Handler),
	}
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Connected reports whether the session holds a live connection.
func (s *Session) Connected() bool {
	return s.State() == StateConnected
}

// Connect opens the gateway connection authenticated with token. Calling
// Connect while already connected is a no-op: at most one underlying
// connection exists at a time.
func (s *Session) Connect(token string) error {
	s.mu.Lock()
	if s.state == StateConnected {
		s.mu.Unlock()
		s.logger.Debug().Msg("connect ignored, already connected")
		return nil
	}
	if token == "" {
		// Missing credentials are a precondition, not an error state:
		// the connection is simply not attempted.
		s.mu.Unlock()
		s.logger.Debug().Msg("connect skipped, no token present")
		return nil
	}
	s.state = StateConnecting
	s.mu.Unlock()

	conn, err := s.dialer.Dial(token)
	if err != nil {
		s.mu.Lock()
		s.state = StateErrored
		s.mu.Unlock()
		s.logger.Error().Err(err).Msg("gateway dial failed")
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateConnected
	s.connID = uuid.New().String()
	connID := s.connID
	s.mu.Unlock()

	s.logger.Info().Str("conn_id", connID).Msg("gateway connected")
	go s.readPump(conn, connID)
	return nil
}

// Disconnect tears down the connection. Safe to call when already
// disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.state = StateDisconnected
	connID := s.connID
	s.mu.Unlock()

	if conn == nil {
		return
	}
	conn.Close()
	s.logger.Info().Str("conn_id", connID).Msg("gateway disconnected")
}

// Emit sends an event to the gateway, fire-and-forget. Emitting while
// disconnected is a silent no-op: delivery is never confirmed at this
// layer, so the caller gets no synchronous failure either way.
func (s *Session) Emit(event string, payload any) {
	s.mu.RLock()
	conn := s.conn
	connected := s.state == StateConnected
	s.mu.RUnlock()

	if !connected || conn == nil {
		s.logger.Debug().Str("event", event).Msg("emit dropped, not connected")
		return
	}

	env, err := wire.Encode(event, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("emit encoding failed")
		return
	}

	s.writeMu.Lock()
	err = conn.WriteJSON(env)
	s.writeMu.Unlock()
	if err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("emit write failed")
	}
}

// Subscribe registers the handler for an event, replacing any previous
// handler for the same event. The subscription set is long-lived: it
// survives connects and disconnects, so handlers registered once keep
// receiving events across the session's lifetime.
func (s *Session) Subscribe(event string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = handler
}

// Unsubscribe removes the handler for an event.
func (s *Session) Unsubscribe(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, event)
}

// readPump reads envelopes until the connection fails or is replaced.
// It dispatches only while its connection is still the session's current
// one, so a pump from a torn-down connection can never feed handlers
// after a newer connect.
func (s *Session) readPump(conn types.Conn, connID string) {
	for {
		var env wire.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			s.mu.Lock()
			if s.conn == conn {
				// Unexpected loss of a live connection. Deliberate
				// disconnects clear s.conn first and never reach here.
				s.conn = nil
				s.state = StateErrored
				s.mu.Unlock()
				s.logger.Warn().Err(err).Str("conn_id", connID).Msg("gateway connection lost")
			} else {
				s.mu.Unlock()
			}
			conn.Close()
			return
		}

		s.mu.RLock()
		current := s.conn == conn
		handler := s.handlers[env.Event]
		s.mu.RUnlock()

		if !current {
			conn.Close()
			return
		}
		if handler == nil {
			s.logger.Debug().Str("event", env.Event).Msg("no handler for event")
			continue
		}
		handler(env)
	}
}
