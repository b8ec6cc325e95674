package chat

import (
	"github.com/qft-app/chatcore/src/session"
	"github.com/qft-app/chatcore/src/tickets"
)

// Compile-time interface assertions.
var (
	_ Transport    = (*session.Session)(nil)
	_ TicketLister = (*tickets.Client)(nil)
)
