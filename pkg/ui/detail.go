package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ticketdesk/pkg/model"
)

var (
	detailClose = key.NewBinding(key.WithKeys("esc", "q", "enter"), key.WithHelp("esc", "close"))
	detailEdit  = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
)

// DetailView shows one ticket with its description rendered as Markdown.
type DetailView struct {
	ticket   model.Ticket
	theme    Theme
	viewport viewport.Model
	width    int
	rendered string
}

// NewDetailView renders ticket for a modal of the given inner size.
func NewDetailView(ticket model.Ticket, theme Theme, width, height int) *DetailView {
	d := &DetailView{ticket: ticket, theme: theme}
	d.SetSize(width, height)
	return d
}

// Ticket returns the ticket on display.
func (d *DetailView) Ticket() model.Ticket { return d.ticket }

// SetSize re-renders the description when the width changes.
func (d *DetailView) SetSize(width, height int) {
	if width != d.width || d.rendered == "" {
		d.width = width
		d.rendered = renderMarkdown(d.ticket.Description, width)
	}
	d.viewport = viewport.New(width, max(3, height-6))
	d.viewport.SetContent(d.rendered)
}

// renderMarkdown renders md for the terminal, falling back to plain text
// when glamour cannot render it.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-2)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// Update handles keys while the detail is open. Edit is handled by the
// caller, which owns the form.
func (d *DetailView) Update(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, detailClose) {
		return func() tea.Msg { return DetailClosedMsg{} }
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

// View renders the detail body.
func (d *DetailView) View() string {
	t := d.ticket
	r := d.theme.Renderer

	status := r.NewStyle().Bold(true).Foreground(d.theme.StatusColor(t.Status)).Render(StatusLabel(t.Status))
	prio := r.NewStyle().Foreground(GetPriorityColor(t.Priority)).Render(GetPriorityIcon(t.Priority) + " " + string(t.Priority))

	assignee := "unassigned"
	if t.Assignee != "" {
		assignee = "@" + t.Assignee
	}
	meta := []string{
		fmt.Sprintf("%s  %s  %s", status, prio, assignee),
		fmt.Sprintf("created %s • updated %s", t.CreatedAt.Format("2006-01-02 15:04"), FormatTimeRel(t.UpdatedAt)),
	}
	if len(t.Tags) > 0 {
		chips := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			chips[i] = TagChipStyle.Render(tag)
		}
		meta = append(meta, strings.Join(chips, " "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		DetailTitleStyle.Render(fmt.Sprintf("#%d %s", t.ID, truncateRunes(t.Title, d.width-8, "…"))),
		DetailMetaStyle.Render(strings.Join(meta, "\n")),
		d.viewport.View(),
		HelpStyle.Render(helpText(detailEdit)+" • "+helpText(detailClose)+" • ↑/↓ scroll"),
	)
}
