package model

import (
	"time"
)

// Ticket represents a unit of trackable work as served by the ticket API.
// ID is zero until the server assigns one.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Assignee    string    `json:"assignee,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft returns the editable fields of the ticket.
func (t Ticket) Draft() Draft {
	tags := make([]string, len(t.Tags))
	copy(tags, t.Tags)
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Assignee:    t.Assignee,
		Tags:        tags,
		Priority:    t.Priority,
		Status:      t.Status,
	}
}

// Priority represents how urgent a ticket is.
// PriorityUnset is the absent value used by filters and drafts.
type Priority string

const (
	PriorityUnset  Priority = ""
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status represents the current state of a ticket.
// StatusUnset is the absent value used by filters and drafts.
type Status string

const (
	StatusUnset      Status = ""
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusClosed     Status = "CLOSED"
)

// Statuses lists the valid statuses in workflow order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Credential is the authenticated principal returned by a successful login.
type Credential struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Filter narrows a ticket listing. Empty fields mean "no constraint".
type Filter struct {
	Status   Status
	Priority Priority
	Query    string
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.Status == StatusUnset && f.Priority == PriorityUnset && f.Query == ""
}

// DefaultPageSize is the page size every list session starts with and
// returns to after a filter change or a mutation.
const DefaultPageSize = 10

// PageRequest selects a zero-based page of a listing.
type PageRequest struct {
	Number int
	Size   int
}

// DefaultPageRequest returns the first page at the default size.
func DefaultPageRequest() PageRequest {
	return PageRequest{Number: 0, Size: DefaultPageSize}
}

// TicketQuery is a filter combined with the page to fetch.
type TicketQuery struct {
	Filter
	PageRequest
}

// TicketPage is one page of results. Number and Size echo what the server
// actually served, which may differ from what was requested.
type TicketPage struct {
	Items         []Ticket
	TotalElements int
	Number        int
	Size          int
}

// TotalPages returns the number of pages the listing spans.
func (p TicketPage) TotalPages() int {
	if p.Size <= 0 || p.TotalElements <= 0 {
		return 0
	}
	return (p.TotalElements + p.Size - 1) / p.Size
}
