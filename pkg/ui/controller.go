package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"ticketdesk/pkg/gateway"
	"ticketdesk/pkg/model"
	"ticketdesk/pkg/store"
)

// ListState is the state of the most recent list refresh.
type ListState int

const (
	StateIdle ListState = iota
	StateLoading
	StateLoaded
	StateError
)

func (s ListState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ListController owns the list session: the filter, the requested page,
// the loading indicator and the selected ticket. It issues gateway calls as
// tea.Cmds and only mutates its state from Update, on the UI goroutine.
//
// Every refresh and detail fetch carries a sequence number; a response whose
// number is not the latest issued is dropped, so overlapping calls can never
// leave an older page or ticket on screen.
type ListController struct {
	gateway TicketGateway
	tickets *store.Tickets
	logger  zerolog.Logger

	state  ListState
	filter model.Filter
	page   model.PageRequest
	total  int
	err    error

	seq       uint64
	detailSeq uint64
	inFlight  int
	gen      uint64 // bumped by Reset; results from older sessions are ignored

	selected *model.Ticket
}

// NewListController creates a controller that writes fetched pages to
// tickets. Nothing is fetched until Init.
func NewListController(gw TicketGateway, tickets *store.Tickets, logger zerolog.Logger) *ListController {
	return &ListController{
		gateway: gw,
		tickets: tickets,
		logger:  logger,
		page:    model.DefaultPageRequest(),
	}
}

// Init starts the session with no filter on the first page.
func (c *ListController) Init() tea.Cmd {
	c.filter = model.Filter{}
	c.page = model.DefaultPageRequest()
	return c.Refresh()
}

// Reset tears the session down: selection, filter and page are cleared,
// the store is emptied and outstanding results will be ignored.
func (c *ListController) Reset() {
	c.gen++
	c.seq++
	c.detailSeq++
	c.inFlight = 0
	c.state = StateIdle
	c.filter = model.Filter{}
	c.page = model.DefaultPageRequest()
	c.total = 0
	c.err = nil
	c.selected = nil
	c.tickets.SetTickets(nil)
}

// State returns the state of the latest refresh.
func (c *ListController) State() ListState { return c.state }

// Loading reports whether any gateway call is outstanding.
func (c *ListController) Loading() bool { return c.inFlight > 0 }

// Filter returns the active filter.
func (c *ListController) Filter() model.Filter { return c.filter }

// Page returns the current page request. After a successful refresh it holds
// the number and size the server actually served.
func (c *ListController) Page() model.PageRequest { return c.page }

// Total returns the server-reported total of the last loaded page.
func (c *ListController) Total() int { return c.total }

// TotalPages returns how many pages the current listing spans.
func (c *ListController) TotalPages() int {
	return model.TicketPage{TotalElements: c.total, Size: c.page.Size}.TotalPages()
}

// Err returns the error of the last failed refresh, if the latest refresh
// failed.
func (c *ListController) Err() error { return c.err }

// Tickets returns the tickets of the current page.
func (c *ListController) Tickets() []model.Ticket { return c.tickets.Tickets() }

// Selected returns the ticket shown in the detail view.
func (c *ListController) Selected() (model.Ticket, bool) {
	if c.selected == nil {
		return model.Ticket{}, false
	}
	return *c.selected, true
}

// DetailVisible reports whether a ticket is selected for viewing.
func (c *ListController) DetailVisible() bool { return c.selected != nil }

// ApplyFilters replaces the filter, restarts at the first page and refreshes.
func (c *ListController) ApplyFilters(f model.Filter) tea.Cmd {
	c.filter = f
	c.page = model.DefaultPageRequest()
	return c.Refresh()
}

// ChangePage keeps the filter and refreshes with p.
func (c *ListController) ChangePage(p model.PageRequest) tea.Cmd {
	if p.Size <= 0 {
		p.Size = model.DefaultPageSize
	}
	if p.Number < 0 {
		p.Number = 0
	}
	c.page = p
	return c.Refresh()
}

// NextPage moves forward one page when there is one.
func (c *ListController) NextPage() tea.Cmd {
	if c.page.Number+1 >= c.TotalPages() {
		return nil
	}
	return c.ChangePage(model.PageRequest{Number: c.page.Number + 1, Size: c.page.Size})
}

// PrevPage moves back one page when there is one.
func (c *ListController) PrevPage() tea.Cmd {
	if c.page.Number == 0 {
		return nil
	}
	return c.ChangePage(model.PageRequest{Number: c.page.Number - 1, Size: c.page.Size})
}

// SetPageSize changes the page size, keeping the first row of the current
// page on screen.
func (c *ListController) SetPageSize(size int) tea.Cmd {
	if size <= 0 || size == c.page.Size {
		return nil
	}
	first := c.page.Number * c.page.Size
	return c.ChangePage(model.PageRequest{Number: first / size, Size: size})
}

// Refresh fetches the current page with the current filter.
func (c *ListController) Refresh() tea.Cmd {
	c.seq++
	c.inFlight++
	c.state = StateLoading
	seq, gen := c.seq, c.gen
	q := model.TicketQuery{Filter: c.filter, PageRequest: c.page}
	gw := c.gateway
	return func() tea.Msg {
		page, err := gw.ListTickets(context.Background(), q)
		return ticketsLoadedMsg{Gen: gen, Seq: seq, Query: q, Page: page, Err: err}
	}
}

// resetAndRefresh returns to the first page at the default size, keeping
// the filter.
func (c *ListController) resetAndRefresh() tea.Cmd {
	c.page = model.DefaultPageRequest()
	return c.Refresh()
}

// OpenDetail fetches ticket id and selects it once it arrives. Only the
// latest fetch can select.
func (c *ListController) OpenDetail(id int64) tea.Cmd {
	c.detailSeq++
	c.inFlight++
	gw, gen, seq := c.gateway, c.gen, c.detailSeq
	return func() tea.Msg {
		t, err := gw.GetTicket(context.Background(), id)
		return ticketLoadedMsg{Gen: gen, Seq: seq, ID: id, Ticket: t, Err: err}
	}
}

// CloseDetail clears the selection.
func (c *ListController) CloseDetail() {
	c.selected = nil
}

// SubmitForm dispatches a confirmed form result to the gateway. Cancelled
// results issue nothing.
func (c *ListController) SubmitForm(res FormResultMsg) tea.Cmd {
	if res.Cancelled {
		return nil
	}
	c.inFlight++
	gw, gen := c.gateway, c.gen
	d := res.Draft
	if res.TicketID == 0 {
		return func() tea.Msg {
			t, err := gw.CreateTicket(context.Background(), d)
			return mutationDoneMsg{Gen: gen, Op: opCreate, ID: t.ID, Ticket: t, Err: err}
		}
	}
	id := res.TicketID
	return func() tea.Msg {
		t, err := gw.UpdateTicket(context.Background(), id, d)
		return mutationDoneMsg{Gen: gen, Op: opUpdate, ID: id, Ticket: t, Err: err}
	}
}

// SubmitDelete deletes the ticket once the user confirmed.
func (c *ListController) SubmitDelete(res ConfirmResultMsg) tea.Cmd {
	if !res.Confirmed {
		return nil
	}
	c.inFlight++
	gw, gen := c.gateway, c.gen
	id := res.TicketID
	return func() tea.Msg {
		return mutationDoneMsg{Gen: gen, Op: opDelete, ID: id, Err: gw.DeleteTicket(context.Background(), id)}
	}
}

// Update applies gateway results to the session.
func (c *ListController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ticketsLoadedMsg:
		if msg.Gen != c.gen {
			return nil
		}
		c.inFlight--
		if msg.Seq != c.seq {
			c.logger.Debug().Uint64("seq", msg.Seq).Uint64("latest", c.seq).Msg("dropping stale ticket page")
			return nil
		}
		if msg.Err != nil {
			c.state = StateError
			c.err = msg.Err
			c.logger.Warn().Err(msg.Err).Int("page", msg.Query.Number).Msg("list tickets failed")
			return Notify(NotifyError, "Could not load tickets: "+errorText(msg.Err))
		}
		c.tickets.SetTickets(msg.Page.Items)
		c.total = msg.Page.TotalElements
		c.page = model.PageRequest{Number: msg.Page.Number, Size: msg.Page.Size}
		if c.page.Size <= 0 {
			c.page.Size = msg.Query.Size
		}
		c.state = StateLoaded
		c.err = nil

	case ticketLoadedMsg:
		if msg.Gen != c.gen {
			return nil
		}
		c.inFlight--
		if msg.Seq != c.detailSeq {
			c.logger.Debug().Int64("id", msg.ID).Msg("dropping stale ticket detail")
			return nil
		}
		if msg.Err != nil {
			c.logger.Warn().Err(msg.Err).Int64("id", msg.ID).Msg("get ticket failed")
			return Notify(NotifyError, "Could not open ticket: "+errorText(msg.Err))
		}
		t := msg.Ticket
		c.selected = &t

	case mutationDoneMsg:
		if msg.Gen != c.gen {
			return nil
		}
		c.inFlight--
		if msg.Err != nil {
			c.logger.Warn().Err(msg.Err).Stringer("op", msg.Op).Int64("id", msg.ID).Msg("ticket mutation failed")
			return Notify(NotifyError, fmt.Sprintf("Could not %s ticket: %s", msg.Op, errorText(msg.Err)))
		}
		c.logger.Info().Stringer("op", msg.Op).Int64("id", msg.ID).Msg("ticket saved")
		if c.selected != nil && c.selected.ID == msg.ID {
			switch msg.Op {
			case opDelete:
				c.selected = nil
			case opUpdate:
				t := msg.Ticket
				c.selected = &t
			}
		}
		return tea.Batch(
			Notify(NotifySuccess, successText(msg)),
			c.resetAndRefresh(),
		)
	}
	return nil
}

func successText(msg mutationDoneMsg) string {
	switch msg.Op {
	case opCreate:
		return fmt.Sprintf("Ticket #%d created", msg.ID)
	case opUpdate:
		return fmt.Sprintf("Ticket #%d updated", msg.ID)
	default:
		return fmt.Sprintf("Ticket #%d deleted", msg.ID)
	}
}

// errorText turns a gateway error into the text shown to the user.
func errorText(err error) string {
	if errors.Is(err, gateway.ErrNotFound) {
		return "ticket not found"
	}
	if msg := gateway.ServerMessage(err); msg != "" {
		return msg
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("server returned %d", apiErr.StatusCode)
	}
	return "the server could not be reached"
}
