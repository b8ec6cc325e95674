package room

import (
	"fmt"
	"strings"
)

// Kind classifies a room address.
type Kind string

const (
	KindChannel Kind = "channel"
	KindDirect  Kind = "dm"
	KindTicket  Kind = "ticket"
)

// Address identifies a chat room. The string form "<kind>:<id>" is used
// both for UI active-room tracking and for the wire-level join/leave
// payloads: there is no translation layer between the two.
type Address struct {
	Kind Kind
	ID   string
}

// String encodes the address as "<kind>:<id>".
func (a Address) String() string {
	return string(a.Kind) + ":" + a.ID
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a.Kind == "" && a.ID == ""
}

// Channel returns the address of a public channel by slug.
func Channel(slug string) Address {
	return Address{Kind: KindChannel, ID: slug}
}

// Ticket returns the address of a support ticket room.
func Ticket(id string) Address {
	return Address{Kind: KindTicket, ID: id}
}

// Direct returns the address of the DM room between two users. The id is
// the pairwise-sorted concatenation of the two user ids, so both
// participants derive the same address regardless of argument order.
func Direct(userA, userB string) Address {
	return Address{Kind: KindDirect, ID: DirectID(userA, userB)}
}

// DirectID builds the deterministic DM room id for a pair of users.
func DirectID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// Parse decodes "<kind>:<id>". Only the first delimiter splits: DM ids
// contain the delimiter themselves, so everything after the first colon
// is the id.
func Parse(s string) (Address, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || kind == "" || id == "" {
		return Address{}, fmt.Errorf("room: malformed address %q", s)
	}
	switch Kind(kind) {
	case KindChannel, KindDirect, KindTicket:
		return Address{Kind: Kind(kind), ID: id}, nil
	default:
		return Address{}, fmt.Errorf("room: unknown room kind %q in address %q", kind, s)
	}
}
