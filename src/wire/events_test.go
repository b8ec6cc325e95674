package wire

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qft-app/chatcore/src/types"
)

func TestEncodeFramesPayload(t *testing.T) {
	env, err := Encode(EventSendMessage, SendMessagePayload{
		RoomID:  "channel:general",
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, EventSendMessage, env.Event)
	assert.JSONEq(t, `{"roomId":"channel:general","content":"hello"}`, string(env.Data))
}

func TestEncodeNilPayload(t *testing.T) {
	env, err := Encode(EventLeaveRoom, nil)
	require.NoError(t, err)
	assert.Empty(t, env.Data)
}

func TestDecodeDirectCreatedUsesWireUserShape(t *testing.T) {
	env := Envelope{
		Event: EventDirectCreated,
		Data:  json.RawMessage(`{"roomId":"dm:u1:u2","targetUser":{"qft_uuid":"u2","username":"Bob"}}`),
	}

	var payload DirectCreatedPayload
	require.NoError(t, Decode(env, &payload))
	assert.Equal(t, "dm:u1:u2", payload.RoomID)
	assert.Equal(t, types.User{ID: "u2", Username: "Bob"}, payload.TargetUser)
}

func TestDecodeMissingPayload(t *testing.T) {
	var payload MessageDeletedPayload
	err := Decode(Envelope{Event: EventMessageDeleted}, &payload)
	assert.Error(t, err)
}

func TestDecodeMalformedPayload(t *testing.T) {
	env := Envelope{Event: EventMessageHistory, Data: json.RawMessage(`{"roomId":3}`)}
	var payload MessageHistoryPayload
	assert.Error(t, Decode(env, &payload))
}
