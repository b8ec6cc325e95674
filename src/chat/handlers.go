package chat

import (
	"github.com/qft-app/chatcore/src/room"
	"github.com/qft-app/chatcore/src/types"
	"github.com/qft-app/chatcore/src/wire"
)

// onChatMessage appends a message to the list if it belongs to the active
// room. Messages for any other room are dropped, not buffered: switching
// into a room repopulates from the server's history push, which is the
// authoritative snapshot. A message arriving between a join emit and its
// history response is lost to the same rule; the history replaces it
// anyway when it lands.
func (s *Store) onChatMessage(env wire.Envelope) {
	var msg types.Message
	if err := wire.Decode(env, &msg); err != nil {
		s.logger.Error().Err(err).Msg("dropping malformed chat message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.IsZero() || msg.RoomID != s.active.String() {
		s.logger.Debug().Str("room_id", msg.RoomID).Msg("dropping message for inactive room")
		return
	}
	s.messages = append(s.messages, msg)
}

// onUserListUpdate replaces a room's presence list wholesale. Presence is
// never merged incrementally: each update is the full roster.
func (s *Store) onUserListUpdate(env wire.Envelope) {
	var payload wire.UserListUpdatePayload
	if err := wire.Decode(env, &payload); err != nil {
		s.logger.Error().Err(err).Msg("dropping malformed presence update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence[payload.RoomID] = payload.Users
}

// onMessageDeleted removes a message by id from the active room.
func (s *Store) onMessageDeleted(env wire.Envelope) {
	var payload wire.MessageDeletedPayload
	if err := wire.Decode(env, &payload); err != nil {
		s.logger.Error().Err(err).Msg("dropping malformed delete event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.IsZero() || payload.RoomID != s.active.String() {
		return
	}
	for i, msg := range s.messages {
		if msg.ID == payload.MessageID {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// onMessageEdited rewrites a message's content and edit timestamp in
// place. A miss (message already gone, or event for another room) is a
// no-op.
func (s *Store) onMessageEdited(env wire.Envelope) {
	var payload wire.MessageEditedPayload
	if err := wire.Decode(env, &payload); err != nil {
		s.logger.Error().Err(err).Msg("dropping malformed edit event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.IsZero() || payload.RoomID != s.active.String() {
		return
	}
	for i := range s.messages {
		if s.messages[i].ID == payload.MessageID {
			updatedAt := payload.UpdatedAt
			s.messages[i].Content = payload.NewContent
			s.messages[i].UpdatedAt = &updatedAt
			return
		}
	}
}

// onMessageHistory replaces the active room's message list with the
// server's snapshot. This is a full resync, not a merge: whatever the
// client held for the room is superseded.
func (s *Store) onMessageHistory(env wire.Envelope) {
	var payload wire.MessageHistoryPayload
	if err := wire.Decode(env, &payload); err != nil {
		s.logger.Error().Err(err).Msg("dropping malformed history push")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active.IsZero() || payload.RoomID != s.active.String() {
		s.logger.Debug().Str("room_id", payload.RoomID).Msg("dropping history for inactive room")
		return
	}
	s.messages = payload.Messages
	s.logger.Debug().Str("room_id", payload.RoomID).Int("count", len(payload.Messages)).Msg("message history applied")
}

// onDirectCreated records the DM thread (deduplicated by the other user's
// id; threads are never removed client-side) and switches into the new
// room.
func (s *Store) onDirectCreated(env wire.Envelope) {
	var payload wire.DirectCreatedPayload
	if err := wire.Decode(env, &payload); err != nil {
		s.logger.Error().Err(err).Msg("dropping malformed dm-room-created event")
		return
	}

	address, err := room.Parse(payload.RoomID)
	if err != nil {
		s.logger.Error().Err(err).Str("room_id", payload.RoomID).Msg("dm room has unparseable address")
		return
	}

	s.mu.Lock()
	known := false
	for _, thread := range s.threads {
		if thread.ID == payload.TargetUser.ID {
			known = true
			break
		}
	}
	if !known {
		s.threads = append(s.threads, types.DirectThread{
			ID:   payload.TargetUser.ID,
			Name: payload.TargetUser.Username,
		})
	}
	s.mu.Unlock()

	s.JoinRoom(address)
}
