package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ticketdesk/pkg/model"
	"ticketdesk/pkg/recipe"
)

type filterField int

const (
	filterStatus filterField = iota
	filterPriority
	filterQuery
	filterFieldCount
)

type filterKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Apply  key.Binding
	Clear  key.Binding
	Preset key.Binding
	Close  key.Binding
}

var filterKeys = filterKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "prev field")),
	Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev option")),
	Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
	Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Clear:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("C-x", "clear")),
	Preset: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("C-p", "next preset")),
	Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}

func statusSelector() selector {
	options := []string{string(model.StatusUnset)}
	labels := []string{"Any"}
	for _, s := range model.Statuses {
		options = append(options, string(s))
		labels = append(labels, StatusLabel(s))
	}
	return newSelector(options, labels)
}

func prioritySelector(unsetLabel string) selector {
	options := []string{string(model.PriorityUnset)}
	labels := []string{unsetLabel}
	for _, p := range model.Priorities {
		options = append(options, string(p))
		labels = append(labels, string(p))
	}
	return newSelector(options, labels)
}

// FilterPanel edits a draft filter. Applying emits the draft exactly as
// entered; empty fields mean "no constraint" and are interpreted downstream.
type FilterPanel struct {
	status   selector
	priority selector
	query    textinput.Model
	focus    filterField

	presets []recipe.Recipe
	preset  int // index of the last applied preset, -1 for none
}

// NewFilterPanel creates an empty panel offering presets.
func NewFilterPanel(presets []recipe.Recipe) *FilterPanel {
	q := textinput.New()
	q.Placeholder = "search title and description"
	q.Prompt = ""
	q.CharLimit = 200
	return &FilterPanel{
		status:   statusSelector(),
		priority: prioritySelector("Any"),
		query:    q,
		presets:  presets,
		preset:   -1,
	}
}

// Draft returns the filter as currently entered.
func (p *FilterPanel) Draft() model.Filter {
	return model.Filter{
		Status:   model.Status(p.status.Value()),
		Priority: model.Priority(p.priority.Value()),
		Query:    p.query.Value(),
	}
}

// SetDraft loads f into the inputs, e.g. when the panel is reopened.
func (p *FilterPanel) SetDraft(f model.Filter) {
	p.status.SetValue(string(f.Status))
	p.priority.SetValue(string(f.Priority))
	p.query.SetValue(f.Query)
}

// Focus moves the cursor to the first field.
func (p *FilterPanel) Focus() {
	p.setFocus(filterStatus)
}

func (p *FilterPanel) setFocus(f filterField) {
	p.focus = f
	if f == filterQuery {
		p.query.Focus()
	} else {
		p.query.Blur()
	}
}

// ApplyFilters emits the draft unmodified.
func (p *FilterPanel) ApplyFilters() tea.Cmd {
	f := p.Draft()
	return func() tea.Msg { return FiltersChangedMsg{Filter: f} }
}

// ClearFilters resets every field and emits an empty filter.
func (p *FilterPanel) ClearFilters() tea.Cmd {
	p.SetDraft(model.Filter{})
	p.preset = -1
	return func() tea.Msg { return FiltersChangedMsg{Filter: model.Filter{}} }
}

// ApplyPreset loads preset i into the draft and emits it. Presets are
// validated at config load, so a conversion failure only skips the preset.
func (p *FilterPanel) ApplyPreset(i int) tea.Cmd {
	if i < 0 || i >= len(p.presets) {
		return nil
	}
	f, err := p.presets[i].Filter()
	if err != nil {
		return Notify(NotifyError, err.Error())
	}
	p.preset = i
	p.SetDraft(f)
	return p.ApplyFilters()
}

// Update handles a key while the panel is open.
func (p *FilterPanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, filterKeys.Close):
		return func() tea.Msg { return FilterPanelClosedMsg{} }
	case key.Matches(msg, filterKeys.Apply):
		return p.ApplyFilters()
	case key.Matches(msg, filterKeys.Clear):
		return p.ClearFilters()
	case key.Matches(msg, filterKeys.Preset):
		if len(p.presets) == 0 {
			return nil
		}
		return p.ApplyPreset((p.preset + 1) % len(p.presets))
	case key.Matches(msg, filterKeys.Next):
		p.setFocus((p.focus + 1) % filterFieldCount)
		return nil
	case key.Matches(msg, filterKeys.Prev):
		p.setFocus((p.focus + filterFieldCount - 1) % filterFieldCount)
		return nil
	}

	switch p.focus {
	case filterStatus:
		p.cycle(&p.status, msg)
	case filterPriority:
		p.cycle(&p.priority, msg)
	case filterQuery:
		var cmd tea.Cmd
		p.query, cmd = p.query.Update(msg)
		return cmd
	}
	return nil
}

func (p *FilterPanel) cycle(s *selector, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, filterKeys.Right), msg.String() == " ":
		s.Next()
	case key.Matches(msg, filterKeys.Left):
		s.Prev()
	}
}

func (p *FilterPanel) label(f filterField, text string) string {
	if p.focus == f {
		return FocusedLabelStyle.Render(text)
	}
	return LabelStyle.Render(text)
}

// View renders the panel body.
func (p *FilterPanel) View(width int) string {
	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render("Filter tickets"))
	b.WriteString("\n")
	b.WriteString(p.label(filterStatus, "Status") + p.status.View(p.focus == filterStatus) + "\n")
	b.WriteString(p.label(filterPriority, "Priority") + p.priority.View(p.focus == filterPriority) + "\n")
	p.query.Width = max(10, width-lipgloss.Width(LabelStyle.Render(""))-6)
	b.WriteString(p.label(filterQuery, "Search") + p.query.View() + "\n")

	if len(p.presets) > 0 {
		names := make([]string, len(p.presets))
		for i, r := range p.presets {
			if i == p.preset {
				names[i] = SelectedChipStyle.Render(r.Name)
			} else {
				names[i] = r.Name
			}
		}
		b.WriteString("\n" + LabelStyle.Render("Presets") + strings.Join(names, "  ") + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render(fmt.Sprintf("%s • %s • %s • %s • %s",
		helpText(filterKeys.Apply), helpText(filterKeys.Clear), helpText(filterKeys.Next),
		helpText(filterKeys.Preset), helpText(filterKeys.Close))))
	return b.String()
}

func helpText(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
