package identity

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type mockRequester struct {
	status int
	body   string

	gotURI  string
	gotAuth string
}

func (m *mockRequester) DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, _ time.Duration) error {
	m.gotURI = req.URI().String()
	m.gotAuth = string(req.Header.Peek("Authorization"))
	resp.SetStatusCode(m.status)
	resp.SetBodyString(m.body)
	return nil
}

func TestStatusRefreshesRoles(t *testing.T) {
	mock := &mockRequester{
		status: 200,
		body:   `{"user":{"qft_uuid":"u1","username":"Alice"},"allRoles":["member","moderator"]}`,
	}
	client := NewStatusClient("https://gateway.test", mock, time.Second, zerolog.Nop())

	id, err := client.Status("tok-123")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "Alice", id.Username)
	assert.Equal(t, []string{"member", "moderator"}, id.Roles)

	assert.Equal(t, "https://gateway.test/api/v1/user/status", mock.gotURI)
	assert.Equal(t, "Bearer tok-123", mock.gotAuth)
}

func TestStatusNon2xxIsError(t *testing.T) {
	mock := &mockRequester{status: 401, body: `{"error":"invalid token"}`}
	client := NewStatusClient("https://gateway.test", mock, time.Second, zerolog.Nop())

	_, err := client.Status("tok")
	assert.ErrorContains(t, err, "401")
}
