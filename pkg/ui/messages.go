package ui

import (
	"context"

	"ticketdesk/pkg/model"
)

// TicketGateway is the subset of the API client the list screen needs.
type TicketGateway interface {
	ListTickets(ctx context.Context, q model.TicketQuery) (model.TicketPage, error)
	GetTicket(ctx context.Context, id int64) (model.Ticket, error)
	CreateTicket(ctx context.Context, d model.Draft) (model.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, d model.Draft) (model.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
}

// Authenticator exchanges credentials for a session credential.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (model.Credential, error)
}

// FiltersChangedMsg is emitted by the filter panel when filters are applied
// or cleared. Filter is passed through unmodified.
type FiltersChangedMsg struct {
	Filter model.Filter
}

// FilterPanelClosedMsg is emitted when the panel is dismissed without
// applying anything.
type FilterPanelClosedMsg struct{}

// FormResultMsg is the single resolution of an EditForm. TicketID is zero
// when the form was opened for a new ticket. When Cancelled is true Draft is
// the zero value and must be ignored.
type FormResultMsg struct {
	TicketID  int64
	Draft     model.Draft
	Cancelled bool
}

// ConfirmResultMsg resolves a ConfirmDialog.
type ConfirmResultMsg struct {
	TicketID  int64
	Confirmed bool
}

// DetailClosedMsg is emitted when the detail modal is dismissed.
type DetailClosedMsg struct{}

// LoggedInMsg reports a successful login.
type LoggedInMsg struct {
	Credential model.Credential
}

// ticketsLoadedMsg carries the result of one list refresh. Seq identifies
// the refresh that produced it.
type ticketsLoadedMsg struct {
	Gen   uint64
	Seq   uint64
	Query model.TicketQuery
	Page  model.TicketPage
	Err   error
}

// ticketLoadedMsg carries the result of a detail fetch. Seq identifies the
// fetch that produced it.
type ticketLoadedMsg struct {
	Gen    uint64
	Seq    uint64
	ID     int64
	Ticket model.Ticket
	Err    error
}

// mutationOp names the write a mutationDoneMsg reports on.
type mutationOp int

const (
	opCreate mutationOp = iota
	opUpdate
	opDelete
)

func (op mutationOp) String() string {
	switch op {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// mutationDoneMsg carries the outcome of a create, update or delete.
type mutationDoneMsg struct {
	Gen    uint64
	Op     mutationOp
	ID     int64
	Ticket model.Ticket
	Err    error
}

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	Credential model.Credential
	Err        error
}
