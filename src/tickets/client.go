// Package tickets is the HTTP collaborator for support-ticket listing.
// Tickets travel over HTTP rather than the socket: the list is fetched
// per guild on demand and is read-only on the client.
package tickets

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/qft-app/chatcore/src/types"
)

// requester is satisfied by *fasthttp.Client. Tests substitute a double.
type requester interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Client fetches tickets from the gateway.
type Client struct {
	baseURL string
	http    requester
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClient creates a ticket client for the gateway at baseURL.
// httpClient may be nil, in which case a default fasthttp client is used.
func NewClient(baseURL string, httpClient requester, timeout time.Duration, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		timeout: timeout,
		logger:  logger.With().Str("component", "ticket-client").Logger(),
	}
}

// ListOpen returns the open tickets for a guild. A non-2xx response is an
// error: the caller must reset its ticket state rather than keep a stale
// list.
func (c *Client) ListOpen(guildID, token string) ([]types.Ticket, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(uri)
	if err := uri.Parse(nil, []byte(c.baseURL+"/tickets")); err != nil {
		return nil, fmt.Errorf("tickets: invalid base URL %q: %w", c.baseURL, err)
	}
	uri.QueryArgs().Set("guildId", guildID)
	uri.QueryArgs().Set("status", "open")

	req.SetURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+token)

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("tickets: listing tickets for guild %s: %w", guildID, err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, fmt.Errorf("tickets: listing tickets for guild %s returned %d", guildID, code)
	}

	var list []types.Ticket
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("tickets: decoding ticket list: %w", err)
	}

	c.logger.Debug().Str("guild_id", guildID).Int("count", len(list)).Msg("tickets fetched")
	return list, nil
}
