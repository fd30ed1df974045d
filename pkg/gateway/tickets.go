package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ticketdesk/pkg/model"
)

// QueryValues serializes a ticket query. Unset filter fields never appear;
// page and limit always do.
func QueryValues(q model.TicketQuery) url.Values {
	v := url.Values{}
	if q.Status != model.StatusUnset {
		v.Set("status", string(q.Status))
	}
	if q.Priority != model.PriorityUnset {
		v.Set("priority", string(q.Priority))
	}
	if query := strings.TrimSpace(q.Query); query != "" {
		v.Set("q", query)
	}
	v.Set("page", strconv.Itoa(q.Number))
	v.Set("limit", strconv.Itoa(q.Size))
	return v
}

func ticketPath(id int64) string {
	return "/tickets/" + strconv.FormatInt(id, 10)
}

// ListTickets fetches one page of tickets matching q. Ordering is whatever
// the server chooses.
func (c *Client) ListTickets(ctx context.Context, q model.TicketQuery) (model.TicketPage, error) {
	var page pageWire
	if err := c.do(ctx, http.MethodGet, "/tickets", QueryValues(q), nil, &page); err != nil {
		return model.TicketPage{}, err
	}
	return page.toModel(), nil
}

// GetTicket fetches a single ticket. A missing ticket yields an error
// matching ErrNotFound.
func (c *Client) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	var t ticketWire
	if err := c.do(ctx, http.MethodGet, ticketPath(id), nil, nil, &t); err != nil {
		return model.Ticket{}, err
	}
	return t.toModel(), nil
}

// CreateTicket submits a new ticket; the server assigns id and timestamps.
func (c *Client) CreateTicket(ctx context.Context, d model.Draft) (model.Ticket, error) {
	var t ticketWire
	if err := c.do(ctx, http.MethodPost, "/tickets", nil, draftToWire(d), &t); err != nil {
		return model.Ticket{}, err
	}
	return t.toModel(), nil
}

// UpdateTicket patches ticket id with the draft's fields. The id travels in
// the path only.
func (c *Client) UpdateTicket(ctx context.Context, id int64, d model.Draft) (model.Ticket, error) {
	var t ticketWire
	if err := c.do(ctx, http.MethodPatch, ticketPath(id), nil, draftToWire(d), &t); err != nil {
		return model.Ticket{}, err
	}
	return t.toModel(), nil
}

// DeleteTicket removes ticket id. The call is not retried.
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, ticketPath(id), nil, nil, nil)
}
