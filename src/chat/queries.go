package chat

import (
	"github.com/qft-app/chatcore/src/identity"
	"github.com/qft-app/chatcore/src/permission"
	"github.com/qft-app/chatcore/src/room"
	"github.com/qft-app/chatcore/src/types"
)

// ActiveRoom returns the room the store is currently viewing. The second
// return is false when no room has been joined yet.
func (s *Store) ActiveRoom() (room.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, !s.active.IsZero()
}

// Messages returns a copy of the active room's message list, in the
// append order the events arrived. The client never re-sorts.
func (s *Store) Messages() []types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Presence returns a copy of the online-user list for a room.
func (s *Store) Presence(address room.Address) []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := s.presence[address.String()]
	out := make([]types.User, len(users))
	copy(out, users)
	return out
}

// Threads returns a copy of the open DM thread list.
func (s *Store) Threads() []types.DirectThread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DirectThread, len(s.threads))
	copy(out, s.threads)
	return out
}

// Tickets returns a copy of the last fetched ticket list.
func (s *Store) Tickets() []types.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Ticket, len(s.ticketL))
	copy(out, s.ticketL)
	return out
}

// Self returns the current identity, or nil when the store is closed.
func (s *Store) Self() *identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self
}

// Allowed reports whether the current user may perform a chat action.
// With no identity present the answer is always false. The role set is
// resolved on every call and never cached, since roles can change
// mid-session on permission refresh.
func (s *Store) Allowed(action permission.Action) bool {
	s.mu.RLock()
	self := s.self
	s.mu.RUnlock()

	if self == nil {
		return false
	}
	return permission.Allowed(self.Roles, action)
}
