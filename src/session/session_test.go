package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qft-app/chatcore/src/types"
	"github.com/qft-app/chatcore/src/wire"
)

// mockConn implements types.Conn without a real WebSocket.
type mockConn struct {
	mu       sync.Mutex
	written  []wire.Envelope
	readCh   chan wire.Envelope
	closed   bool
	closedCh chan struct{}
}

func newMockConn() *mockConn {
	return &mockConn{
		readCh:   make(chan wire.Envelope, 16),
		closedCh: make(chan struct{}),
	}
}

func (m *mockConn) WriteJSON(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	env, ok := v.(wire.Envelope)
	if !ok {
		return errors.New("unexpected frame type")
	}
	m.written = append(m.written, env)
	return nil
}

func (m *mockConn) ReadJSON(v any) error {
	select {
	case env := <-m.readCh:
		*(v.(*wire.Envelope)) = env
		return nil
	case <-m.closedCh:
		return errors.New("connection closed")
	}
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.closedCh)
	}
	return nil
}

func (m *mockConn) getWritten() []wire.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]wire.Envelope, len(m.written))
	copy(out, m.written)
	return out
}

// mockDialer hands out prepared connections and counts dials.
type mockDialer struct {
	mu    sync.Mutex
	conns []*mockConn
	dials int
	err   error
}

func (d *mockDialer) Dial(token string) (types.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	conn := d.conns[d.dials]
	d.dials++
	return conn, nil
}

func (d *mockDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func newTestSession(conns ...*mockConn) (*Session, *mockDialer) {
	dialer := &mockDialer{conns: conns}
	return New(dialer, zerolog.Nop()), dialer
}

func TestConnectIsNoOpWhenConnected(t *testing.T) {
	s, dialer := newTestSession(newMockConn(), newMockConn())

	require.NoError(t, s.Connect("token"))
	require.NoError(t, s.Connect("token"))

	assert.Equal(t, 1, dialer.dialCount())
	assert.Equal(t, StateConnected, s.State())
}

func TestConnectWithoutTokenNotAttempted(t *testing.T) {
	s, dialer := newTestSession(newMockConn())

	require.NoError(t, s.Connect(""))

	assert.Equal(t, 0, dialer.dialCount())
	assert.Equal(t, StateDisconnected, s.State())
}

func TestConnectDialFailure(t *testing.T) {
	dialer := &mockDialer{err: errors.New("refused")}
	s := New(dialer, zerolog.Nop())

	assert.Error(t, s.Connect("token"))
	assert.Equal(t, StateErrored, s.State())
}

func TestDisconnectIdempotent(t *testing.T) {
	s, _ := newTestSession(newMockConn())
	require.NoError(t, s.Connect("token"))

	s.Disconnect()
	s.Disconnect()
	assert.Equal(t, StateDisconnected, s.State())
}

func TestEmitWhileDisconnectedIsNoOp(t *testing.T) {
	conn := newMockConn()
	s, _ := newTestSession(conn)

	s.Emit(wire.EventJoinRoom, "channel:general")
	assert.Empty(t, conn.getWritten())
}

func TestEmitWritesEnvelope(t *testing.T) {
	conn := newMockConn()
	s, _ := newTestSession(conn)
	require.NoError(t, s.Connect("token"))

	s.Emit(wire.EventSendMessage, wire.SendMessagePayload{RoomID: "channel:general", Content: "hi"})

	written := conn.getWritten()
	require.Len(t, written, 1)
	assert.Equal(t, wire.EventSendMessage, written[0].Event)
	assert.JSONEq(t, `{"roomId":"channel:general","content":"hi"}`, string(written[0].Data))
}

func TestReadPumpDispatchesInOrder(t *testing.T) {
	conn := newMockConn()
	s, _ := newTestSession(conn)

	var mu sync.Mutex
	var seen []string
	s.Subscribe(wire.EventChatMessage, func(env wire.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(env.Data))
	})

	require.NoError(t, s.Connect("token"))
	conn.readCh <- wire.Envelope{Event: wire.EventChatMessage, Data: []byte(`"first"`)}
	conn.readCh <- wire.Envelope{Event: wire.EventChatMessage, Data: []byte(`"second"`)}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`"first"`, `"second"`}, seen)
}

func TestUnsubscribedEventsAreSkipped(t *testing.T) {
	conn := newMockConn()
	s, _ := newTestSession(conn)

	var mu sync.Mutex
	var count int
	s.Subscribe(wire.EventChatMessage, func(wire.Envelope) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	s.Unsubscribe(wire.EventChatMessage)

	require.NoError(t, s.Connect("token"))
	conn.readCh <- wire.Envelope{Event: wire.EventChatMessage, Data: []byte(`"x"`)}
	conn.readCh <- wire.Envelope{Event: "unknown-event", Data: []byte(`"y"`)}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestConnectionLossEntersErroredState(t *testing.T) {
	conn := newMockConn()
	s, _ := newTestSession(conn)
	require.NoError(t, s.Connect("token"))

	conn.Close()

	assert.Eventually(t, func() bool {
		return s.State() == StateErrored
	}, time.Second, 5*time.Millisecond)
}

// The subscription set is long-lived: handlers registered before a
// reconnect keep receiving events from the new connection.
func TestHandlersSurviveReconnect(t *testing.T) {
	first := newMockConn()
	second := newMockConn()
	s, dialer := newTestSession(first, second)

	var mu sync.Mutex
	var seen int
	s.Subscribe(wire.EventChatMessage, func(wire.Envelope) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	require.NoError(t, s.Connect("token"))
	s.Disconnect()
	require.NoError(t, s.Connect("token"))
	require.Equal(t, 2, dialer.dialCount())

	second.readCh <- wire.Envelope{Event: wire.EventChatMessage, Data: []byte(`"hello"`)}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen == 1
	}, time.Second, 5*time.Millisecond)
}
