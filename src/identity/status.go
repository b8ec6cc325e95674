package identity

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

// StatusClient fetches the authenticated user's status from the gateway.
// This is the collaborator call that re-derives the role set on login and
// on periodic permission refresh.
type StatusClient struct {
	baseURL string
	http    requester
	timeout time.Duration
	logger  zerolog.Logger
}

// NewStatusClient creates a status client for the gateway at baseURL.
// httpClient may be nil, in which case a default fasthttp client is used.
func NewStatusClient(baseURL string, httpClient requester, timeout time.Duration, logger zerolog.Logger) *StatusClient {
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}
	return &StatusClient{
		baseURL: baseURL,
		http:    httpClient,
		timeout: timeout,
		logger:  logger.With().Str("component", "status-client").Logger(),
	}
}

// statusResponse is the /api/v1/user/status body.
type statusResponse struct {
	User     types.User `json:"user"`
	AllRoles []string   `json:"allRoles"`
}

// Status returns the identity the server currently associates with the
// token: user reference plus the full role-name set.
func (c *StatusClient) Status(token string) (*Identity, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/api/v1/user/status")
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+token)

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("identity: status request failed: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, fmt.Errorf("identity: status request returned %d", code)
	}

	var body statusResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("identity: decoding status response: %w", err)
	}

	c.logger.Debug().Str("user_id", body.User.ID).Int("roles", len(body.AllRoles)).Msg("user status refreshed")

	return &Identity{
		UserID:   body.User.ID,
		Username: body.User.Username,
		Roles:    body.AllRoles,
	}, nil
}
