// Package wire defines the gateway chat protocol: the event names carried
// over the WebSocket session and one typed payload per event. Incoming
// payloads are parsed here, at the transport boundary, so nothing
// loosely-typed reaches the chat store.
package wire

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/qft-app/chatcore/src/types"
)

// Outbound event names. The strings are the wire contract with the
// gateway and must not be normalized.
const (
	EventJoinRoom      = "joinRoom"
	EventLeaveRoom     = "leaveRoom"
	EventSendMessage   = "message-send"
	EventDeleteMessage = "deleteMessage"
	EventEditMessage   = "message.edit"
	EventJoinDirect    = "joinDm"
)

// Inbound event names.
const (
	EventChatMessage    = "chat message"
	EventUserListUpdate = "userListUpdate"
	EventMessageDeleted = "messageDeleted"
	EventMessageEdited  = "messageEdited"
	EventMessageHistory = "messageHistory"
	EventDirectCreated  = "dm-room-created"
)

// Envelope frames every event on the connection.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload asks the server to post a message to a room.
type SendMessagePayload struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

// DeleteMessagePayload asks the server to delete a message.
type DeleteMessagePayload struct {
	MessageID string `json:"messageId"`
}

// EditMessagePayload asks the server to replace a message's content.
type EditMessagePayload struct {
	MessageID  string `json:"messageId"`
	NewContent string `json:"newContent"`
}

// JoinDirectPayload asks the server to open (or re-join) the DM room with
// another user. The room itself arrives later via dm-room-created.
type JoinDirectPayload struct {
	TargetUserID string `json:"targetUserId"`
}

// UserListUpdatePayload replaces a room's presence list wholesale.
type UserListUpdatePayload struct {
	RoomID string       `json:"roomId"`
	Users  []types.User `json:"users"`
}

// MessageDeletedPayload removes a message from a room.
type MessageDeletedPayload struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
}

// MessageEditedPayload rewrites a message's content in place.
type MessageEditedPayload struct {
	MessageID  string    `json:"messageId"`
	RoomID     string    `json:"roomId"`
	NewContent string    `json:"newContent"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MessageHistoryPayload is the authoritative snapshot of a room's
// messages, pushed by the server after a join. It supersedes, not
// merges with, whatever the client holds for that room.
type MessageHistoryPayload struct {
	RoomID   string          `json:"roomId"`
	Messages []types.Message `json:"messages"`
}

// DirectCreatedPayload confirms a DM room and names the other participant.
type DirectCreatedPayload struct {
	RoomID     string     `json:"roomId"`
	TargetUser types.User `json:"targetUser"`
}

// Encode frames an event and its payload for the socket.
func Encode(event string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("wire: encoding %s payload: %w", event, err)
	}
	return Envelope{Event: event, Data: data}, nil
}

// Decode parses an envelope's payload into out.
func Decode(env Envelope, out any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("wire: %s event has no payload", env.Event)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("wire: decoding %s payload: %w", env.Event, err)
	}
	return nil
}
