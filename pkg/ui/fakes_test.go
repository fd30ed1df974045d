package ui_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ticketdesk/pkg/gateway"
	"ticketdesk/pkg/model"
	"ticketdesk/pkg/ui"
)

// fakeGateway is an in-memory TicketGateway that records every call.
type fakeGateway struct {
	mu sync.Mutex

	tickets map[int64]model.Ticket
	nextID  int64

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	queries []model.TicketQuery
	created []model.Draft
	updated map[int64]model.Draft
	deleted []int64
}

func newFakeGateway(tickets ...model.Ticket) *fakeGateway {
	g := &fakeGateway{tickets: map[int64]model.Ticket{}, nextID: 100, updated: map[int64]model.Draft{}}
	for _, t := range tickets {
		g.tickets[t.ID] = t
	}
	return g
}

func (g *fakeGateway) ListTickets(_ context.Context, q model.TicketQuery) (model.TicketPage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, q)
	if g.listErr != nil {
		return model.TicketPage{}, g.listErr
	}
	var items []model.Ticket
	for _, t := range g.tickets {
		if q.Status != model.StatusUnset && t.Status != q.Status {
			continue
		}
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	total := len(items)
	start := min(q.Number*q.Size, total)
	end := min(start+q.Size, total)
	return model.TicketPage{Items: items[start:end], TotalElements: total, Number: q.Number, Size: q.Size}, nil
}

func (g *fakeGateway) GetTicket(_ context.Context, id int64) (model.Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return model.Ticket{}, g.getErr
	}
	t, ok := g.tickets[id]
	if !ok {
		return model.Ticket{}, &gateway.APIError{Method: "GET", Path: "/tickets", StatusCode: 404, Message: "Ticket not found"}
	}
	return t, nil
}

func (g *fakeGateway) CreateTicket(_ context.Context, d model.Draft) (model.Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, d)
	if g.createErr != nil {
		return model.Ticket{}, g.createErr
	}
	g.nextID++
	t := model.Ticket{ID: g.nextID, Title: d.Title, Description: d.Description, Priority: d.Priority, Status: model.StatusOpen, Tags: d.Tags}
	g.tickets[t.ID] = t
	return t, nil
}

func (g *fakeGateway) UpdateTicket(_ context.Context, id int64, d model.Draft) (model.Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updated[id] = d
	if g.updateErr != nil {
		return model.Ticket{}, g.updateErr
	}
	t := g.tickets[id]
	t.Title, t.Description, t.Priority, t.Status = d.Title, d.Description, d.Priority, d.Status
	g.tickets[id] = t
	return t, nil
}

func (g *fakeGateway) DeleteTicket(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, id)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.tickets, id)
	return nil
}

func (g *fakeGateway) lastQuery(t *testing.T) model.TicketQuery {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queries) == 0 {
		t.Fatal("no list query issued")
	}
	return g.queries[len(g.queries)-1]
}

func (g *fakeGateway) queryCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queries)
}

// fakeAuth returns a fixed credential or error.
type fakeAuth struct {
	cred model.Credential
	err  error
}

func (a fakeAuth) Login(_ context.Context, username, _ string) (model.Credential, error) {
	if a.err != nil {
		return model.Credential{}, a.err
	}
	c := a.cred
	c.Username = username
	return c, nil
}

// cmdTimeout bounds how long run waits on a command. Gateway fakes answer
// immediately; anything slower is a timer (tick, cursor blink) and is dropped.
const cmdTimeout = 100 * time.Millisecond

// run executes cmd and returns every message it produced, expanding
// batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(cmdTimeout):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// updater is anything that takes messages and returns follow-up commands.
type updater func(tea.Msg) tea.Cmd

// settle feeds the messages produced by cmd back into update until nothing
// is left and returns every message seen. Follow-ups of notifications and
// spinner ticks are timers, so they are not run.
func settle(update updater, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := run(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		next := update(msg)
		switch msg.(type) {
		case ui.NotifyMsg, spinner.TickMsg:
			continue
		}
		queue = append(queue, run(next)...)
	}
	return seen
}

// notifications returns the notifications among msgs.
func notifications(msgs []tea.Msg) []ui.NotifyMsg {
	var out []ui.NotifyMsg
	for _, m := range msgs {
		if n, ok := m.(ui.NotifyMsg); ok {
			out = append(out, n)
		}
	}
	return out
}
