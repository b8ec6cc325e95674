package types

import "time"

// User is a reference to a gateway user as it appears on the wire:
// the gateway's opaque uuid plus the display name.
type User struct {
	ID       string `json:"qft_uuid"`
	Username string `json:"username"`
}

// Message is a chat message owned by the room it was sent to. The id is
// server-assigned and unique within the room. UpdatedAt is non-nil only
// when the message has been edited.
type Message struct {
	ID        string     `json:"id"`
	RoomID    string     `json:"roomId"`
	Author    User       `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DirectThread is an open direct-message conversation with another user.
// Threads are created when the server confirms a DM room and are never
// removed client-side.
type DirectThread struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ticket is a support ticket belonging to a guild. Tickets are fetched
// over HTTP on demand and are read-only from the client's perspective.
type Ticket struct {
	ID           string    `json:"id"`
	TicketNumber int       `json:"ticketNumber"`
	GuildID      string    `json:"guildId"`
	AuthorID     string    `json:"authorId"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Conn abstracts the underlying WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}
