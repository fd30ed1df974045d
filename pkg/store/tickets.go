// Package store holds the page of tickets the list view renders.
package store

import (
	"sync"

	"ticketdesk/pkg/model"
)

// Tickets holds the current page of tickets. Every refresh replaces the
// whole sequence; there is no incremental patching.
type Tickets struct {
	mu    sync.RWMutex
	items []model.Ticket
}

// NewTickets creates an empty store.
func NewTickets() *Tickets {
	return &Tickets{items: []model.Ticket{}}
}

// SetTickets replaces the held sequence wholesale.
func (s *Tickets) SetTickets(items []model.Ticket) {
	held := make([]model.Ticket, len(items))
	copy(held, items)

	s.mu.Lock()
	s.items = held
	s.mu.Unlock()
}

// Tickets returns a copy of the held sequence.
func (s *Tickets) Tickets() []model.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Ticket, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of held tickets.
func (s *Tickets) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
