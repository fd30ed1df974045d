package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmYes = key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete"))
	confirmNo  = key.NewBinding(key.WithKeys("n", "N", "esc", "q"), key.WithHelp("n/esc", "keep"))
)

// ConfirmDialog asks before an irreversible delete. Like the form it
// resolves once.
type ConfirmDialog struct {
	ticketID int64
	title    string
	resolved bool
}

// NewConfirmDialog asks to delete the given ticket.
func NewConfirmDialog(id int64, title string) *ConfirmDialog {
	return &ConfirmDialog{ticketID: id, title: title}
}

// Update handles a key while the dialog is open.
func (d *ConfirmDialog) Update(msg tea.KeyMsg) tea.Cmd {
	if d.resolved {
		return nil
	}
	var confirmed bool
	switch {
	case key.Matches(msg, confirmYes):
		confirmed = true
	case key.Matches(msg, confirmNo):
		confirmed = false
	default:
		return nil
	}
	d.resolved = true
	res := ConfirmResultMsg{TicketID: d.ticketID, Confirmed: confirmed}
	return func() tea.Msg { return res }
}

// View renders the dialog body.
func (d *ConfirmDialog) View(width int) string {
	body := lipgloss.NewStyle().Width(width).Render(
		fmt.Sprintf("Delete ticket #%d %q?\nThis cannot be undone.", d.ticketID, truncateRunes(d.title, 40, "…")))
	return lipgloss.JoinVertical(lipgloss.Left,
		DetailTitleStyle.Render("Delete ticket"),
		body,
		"",
		HelpStyle.Render(helpText(confirmYes)+" • "+helpText(confirmNo)),
	)
}
