package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tier represents the width tier of the display
type Tier int

const (
	TierCompact Tier = iota
	TierNormal
	TierWide
	TierUltraWide
)

// TierForWidth picks the column set that fits a terminal width.
func TierForWidth(width int) Tier {
	switch {
	case width >= 160:
		return TierUltraWide
	case width >= 120:
		return TierWide
	case width >= 90:
		return TierNormal
	default:
		return TierCompact
	}
}

type TicketDelegate struct {
	Tier Tier
}

func (d TicketDelegate) Height() int {
	return 1
}

func (d TicketDelegate) Spacing() int {
	return 0
}

func (d TicketDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d TicketDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(TicketItem)
	if !ok {
		return
	}

	var baseStyle lipgloss.Style
	if index == m.Index() {
		baseStyle = SelectedItemStyle
	} else {
		baseStyle = ItemStyle
	}

	// Base Columns (Compact)
	id := ColIDStyle.Render(fmt.Sprintf("#%d", i.Ticket.ID))
	prio := ColPrioStyle.Foreground(GetPriorityColor(i.Ticket.Priority)).Render(GetPriorityIcon(i.Ticket.Priority))
	status := ColStatusStyle.Foreground(GetStatusColor(i.Ticket.Status)).Render(StatusLabel(i.Ticket.Status))

	// Optional Columns
	assignee := ""
	age := ""
	tags := ""
	updated := ""
	extraWidth := 0

	// Assignee (Normal+), fixed width so rows stay aligned
	if d.Tier >= TierNormal {
		label := ""
		if i.Ticket.Assignee != "" {
			label = "@" + i.Ticket.Assignee
		}
		assignee = ColAssigneeStyle.Render(truncateRunes(label, 12, "…"))
		extraWidth += 12
	}

	// Age & Tags (Wide+)
	if d.Tier >= TierWide {
		age = ColAgeStyle.Render(FormatTimeRel(i.Ticket.CreatedAt))
		tags = ColTagsStyle.Render(truncateRunes(formatTags(i.Ticket.Tags), 18, "…"))
		extraWidth += 8 + 18
	}

	// Updated (UltraWide)
	if d.Tier >= TierUltraWide {
		updated = ColAgeStyle.Width(10).Render(FormatTimeRel(i.Ticket.UpdatedAt))
		extraWidth += 10
	}

	// ID(7) + Prio(3) + Status(13) + optional columns + padding
	fixedWidth := 7 + 3 + 13 + extraWidth + 2
	availableWidth := m.Width() - fixedWidth - 4
	if availableWidth < 10 {
		availableWidth = 10
	}

	titleStyle := ColTitleStyle.Width(availableWidth).MaxWidth(availableWidth)
	if index == m.Index() {
		titleStyle = titleStyle.Foreground(ColorPrimary).Bold(true)
	}
	title := titleStyle.Render(" " + strings.TrimSpace(i.Ticket.Title))

	parts := []string{id, prio, status, title}
	if d.Tier >= TierWide {
		parts = append(parts, tags, age)
	}
	if d.Tier >= TierNormal {
		parts = append(parts, assignee)
	}
	if d.Tier >= TierUltraWide {
		parts = append(parts, updated)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	fmt.Fprint(w, baseStyle.Render(row))
}
