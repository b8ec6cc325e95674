package session

import (
	"fmt"
	"net/http"

	"github.com/fasthttp/websocket"

	"github.com/qft-app/chatcore/config"
	"github.com/qft-app/chatcore/src/types"
)

// GatewayDialer dials the gateway's WebSocket endpoint. The bearer token
// rides on the upgrade request; the server rejects the handshake on an
// invalid token; the client does not validate it locally.
type GatewayDialer struct {
	url    string
	dialer *websocket.Dialer
}

// NewGatewayDialer creates a dialer for the configured gateway endpoint.
func NewGatewayDialer(cfg *config.ClientConfig) *GatewayDialer {
	return &GatewayDialer{
		url: cfg.GatewayURL,
		dialer: &websocket.Dialer{
			ReadBufferSize:   cfg.ReadBufferSize,
			WriteBufferSize:  cfg.WriteBufferSize,
			HandshakeTimeout: cfg.HTTPTimeout,
		},
	}
}

// Dial opens the authenticated connection.
func (d *GatewayDialer) Dial(token string) (types.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := d.dialer.Dial(d.url, header)
	if err != nil {
		return nil, fmt.Errorf("session: dialing %s: %w", d.url, err)
	}
	return conn, nil
}

// Compile-time check: *websocket.Conn satisfies types.Conn.
var _ types.Conn = (*websocket.Conn)(nil)
