package ui

import (
	"fmt"
	"strings"

	"ticketdesk/pkg/model"
)

// TicketItem wraps model.Ticket to implement list.Item
type TicketItem struct {
	Ticket model.Ticket
}

func (i TicketItem) Title() string {
	return i.Ticket.Title
}

func (i TicketItem) Description() string {
	return fmt.Sprintf("#%d %s • %s", i.Ticket.ID, i.Ticket.Status, i.Ticket.Assignee)
}

// FilterValue covers title, status, priority, assignee and tags. The list's
// own fuzzy filter is disabled (filtering is server-side), so this only
// feeds the bubbles list contract.
func (i TicketItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.Ticket.Title)
	sb.WriteString(" ")
	sb.WriteString(string(i.Ticket.Status))
	sb.WriteString(" ")
	sb.WriteString(string(i.Ticket.Priority))

	if i.Ticket.Assignee != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Ticket.Assignee)
	}

	if len(i.Ticket.Tags) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(i.Ticket.Tags, " "))
	}

	return sb.String()
}
