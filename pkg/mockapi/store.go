package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ticketdesk/pkg/model"
)

// ErrTicketNotFound is returned for unknown ticket ids.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketFields carries the writable ticket fields of a create or patch
// body. Nil means "not provided".
type TicketFields struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Assignee    *string `json:"assignee"`
	Tags        *string `json:"tags"`
}

// Ticket is the stored and served representation; tags stay comma-joined
// like on the wire.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Assignee    string    `json:"assignee"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListQuery selects a page of tickets. Empty strings do not constrain.
type ListQuery struct {
	Status   string
	Priority string
	Text     string
	Page     int
	Limit    int
}

// Store is an in-memory ticket table.
type Store struct {
	mu      sync.RWMutex
	tickets map[int64]Ticket
	nextID  int64
	now     func() time.Time
}

// NewStore creates an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{tickets: map[int64]Ticket{}, now: now}
}

// List returns the requested page, newest first, together with the total
// number of matches and the page number actually served. Pages past the
// end are clamped to the last page.
func (s *Store) List(q ListQuery) ([]Ticket, int, int) {
	s.mu.RLock()
	matches := make([]Ticket, 0, len(s.tickets))
	text := strings.ToLower(strings.TrimSpace(q.Text))
	for _, t := range s.tickets {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(t.Title), text) &&
			!strings.Contains(strings.ToLower(t.Description), text) {
			continue
		}
		matches = append(matches, t)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	total := len(matches)
	page := max(0, q.Page)
	if last := max(0, (total-1)/q.Limit); page > last {
		page = last
	}
	start := min(page*q.Limit, total)
	end := min(start+q.Limit, total)
	return matches[start:end], total, page
}

// Get returns ticket id.
func (s *Store) Get(id int64) (Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return Ticket{}, ErrTicketNotFound
	}
	return t, nil
}

// Create stores a new ticket. A missing status defaults to OPEN.
func (s *Store) Create(f TicketFields) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.now()
	t := Ticket{ID: s.nextID, Status: string(model.StatusOpen), CreatedAt: now, UpdatedAt: now}
	apply(&t, f)
	s.tickets[t.ID] = t
	return t
}

// Patch overwrites the provided fields of ticket id.
func (s *Store) Patch(id int64, f TicketFields) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return Ticket{}, ErrTicketNotFound
	}
	apply(&t, f)
	t.UpdatedAt = s.now()
	s.tickets[id] = t
	return t, nil
}

// Delete removes ticket id.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return ErrTicketNotFound
	}
	delete(s.tickets, id)
	return nil
}

// Len returns the number of stored tickets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

func apply(t *Ticket, f TicketFields) {
	if f.Title != nil {
		t.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		t.Description = strings.TrimSpace(*f.Description)
	}
	if f.Priority != nil && *f.Priority != "" {
		t.Priority = *f.Priority
	}
	if f.Status != nil && *f.Status != "" {
		t.Status = *f.Status
	}
	if f.Assignee != nil {
		t.Assignee = strings.TrimSpace(*f.Assignee)
	}
	if f.Tags != nil {
		t.Tags = model.EncodeTags(model.DecodeTags(*f.Tags))
	}
}

// Seed fills the store with a handful of sample tickets for local use,
// spread over the last few days.
func Seed(s *Store) {
	samples := []struct {
		title, desc, priority, status, assignee, tags string
	}{
		{"Printer on floor 3 jams", "Paper jams on every **duplex** job.", "MEDIUM", "OPEN", "alice", "hardware,office"},
		{"VPN drops every hour", "Connection resets after ~60 minutes.\n\n- macOS 14\n- client 5.2", "HIGH", "IN_PROGRESS", "bob", "network,vpn"},
		{"Onboarding laptop for Dana", "Standard dev image, 32GB RAM.", "LOW", "OPEN", "", "onboarding"},
		{"Wiki search returns nothing", "Search index looks empty since the upgrade.", "HIGH", "OPEN", "alice", "wiki"},
		{"Rotate shared mailbox password", "Quarterly rotation.", "LOW", "CLOSED", "bob", "security"},
		{"Monitor flickers", "Dell U2720Q flickers at 60Hz over USB-C.", "LOW", "IN_PROGRESS", "", "hardware"},
		{"Build agents out of disk", "`/var/lib/docker` is at 98% on agents 2 and 4.", "HIGH", "OPEN", "carol", "ci,infra"},
		{"Request access to billing dashboard", "Needed for the Q3 review.", "MEDIUM", "CLOSED", "carol", "access"},
	}
	base := s.now().Add(-time.Duration(len(samples)) * 6 * time.Hour)
	for i, sm := range samples {
		t := s.Create(TicketFields{
			Title: &sm.title, Description: &sm.desc, Priority: &sm.priority,
			Status: &sm.status, Assignee: &sm.assignee, Tags: &sm.tags,
		})
		created := base.Add(time.Duration(i) * 6 * time.Hour)
		s.mu.Lock()
		t.CreatedAt, t.UpdatedAt = created, created
		s.tickets[t.ID] = t
		s.mu.Unlock()
	}
}
