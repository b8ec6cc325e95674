package chat

import (
	"strings"

	"github.com/qft-app/chatcore/src/permission"
	"github.com/qft-app/chatcore/src/room"
	"github.com/qft-app/chatcore/src/types"
	"github.com/qft-app/chatcore/src/wire"
)

// JoinRoom makes address the active room. If a different room was active,
// a best-effort leave is emitted for it first. The join is emitted even
// when re-joining the current room: the server answers every join with a
// history push, so a redundant join doubles as a resynchronization.
func (s *Store) JoinRoom(address room.Address) {
	s.mu.Lock()
	previous := s.active
	s.active = address
	s.mu.Unlock()

	if !previous.IsZero() && previous != address {
		s.transport.Emit(wire.EventLeaveRoom, previous.String())
	}
	s.transport.Emit(wire.EventJoinRoom, address.String())

	s.logger.Debug().Str("room_id", address.String()).Msg("joined room")
}

// SendMessage posts content to the active room. The permission check is a
// UX guard, not a security control: a user without the send grant gets a
// silent rejection (logged) and no network call. There is no optimistic
// local insert: the message appears when the server echoes it.
func (s *Store) SendMessage(content string) {
	if !s.Allowed(permission.ActionSend) {
		s.logger.Warn().Msg("send rejected, user lacks send permission")
		return
	}

	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()

	if active.IsZero() || strings.TrimSpace(content) == "" {
		return
	}
	s.transport.Emit(wire.EventSendMessage, wire.SendMessagePayload{
		RoomID:  active.String(),
		Content: content,
	})
}

// DeleteMessage asks the server to delete a message. Authorization is the
// server's call; the client-side permission model only decides whether
// the delete control is shown at all.
func (s *Store) DeleteMessage(messageID string) {
	s.transport.Emit(wire.EventDeleteMessage, wire.DeleteMessagePayload{
		MessageID: messageID,
	})
}

// EditMessage asks the server to replace a message's content. The edit
// lands locally when the server pushes the messageEdited event back.
func (s *Store) EditMessage(messageID, newContent string) {
	s.transport.Emit(wire.EventEditMessage, wire.EditMessagePayload{
		MessageID:  messageID,
		NewContent: newContent,
	})
}

// StartDirectMessage asks the server to open the DM room with another
// user. Thread creation and the room switch happen asynchronously when
// dm-room-created arrives.
func (s *Store) StartDirectMessage(targetUserID string) {
	s.transport.Emit(wire.EventJoinDirect, wire.JoinDirectPayload{
		TargetUserID: targetUserID,
	})
}

// ListTickets fetches the open tickets for a guild and replaces the
// ticket list. On failure the list is cleared rather than left stale,
// and the error is returned for the caller to surface.
func (s *Store) ListTickets(guildID string) ([]types.Ticket, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	list, err := s.tickets.ListOpen(guildID, token)
	if err != nil {
		s.mu.Lock()
		s.ticketL = nil
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("guild_id", guildID).Msg("ticket fetch failed")
		return nil, err
	}

	s.mu.Lock()
	s.ticketL = list
	s.mu.Unlock()
	return list, nil
}
