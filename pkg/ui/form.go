package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ticketdesk/pkg/model"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldAssignee
	fieldTags
	fieldPriority
	fieldStatus
	formFieldCount
)

var formFieldNames = map[formField]string{
	fieldTitle:       "title",
	fieldDescription: "description",
	fieldAssignee:    "assignee",
	fieldTags:        "tags",
	fieldPriority:    "priority",
	fieldStatus:      "status",
}

type formKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Left      key.Binding
	Right     key.Binding
	CommitTag key.Binding
	RemoveTag key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

var formKeys = formKeyMap{
	Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev field")),
	Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev option")),
	Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
	CommitTag: key.NewBinding(key.WithKeys("enter", ","), key.WithHelp("enter/,", "add tag")),
	RemoveTag: key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("←/bksp", "remove tag")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// EditForm edits a draft for a new ticket or an existing one. It resolves
// exactly once, emitting a FormResultMsg on save (after local validation
// passes) or on cancel. After resolving it ignores further input.
type EditForm struct {
	ticketID int64

	title       textinput.Model
	description textarea.Model
	assignee    textinput.Model
	tagInput    textinput.Model
	tags        []string
	tagCursor   int // chip picked for removal, -1 while typing
	priority    selector
	status      selector

	focus    formField
	errs     map[string]string
	resolved bool
}

// NewEditForm builds a form. A nil ticket opens a blank form for creation;
// otherwise the form is pre-filled and the status becomes editable.
func NewEditForm(ticket *model.Ticket) *EditForm {
	f := &EditForm{
		title:       newInput("Short summary", 120),
		description: textarea.New(),
		assignee:    newInput("username (optional)", 64),
		tagInput:    newInput("type a tag, enter or , to add", 64),
		tags:        []string{},
		tagCursor:   -1,
		priority:    newSelector(priorityOptions(), priorityOptions()),
		status:      newSelector(statusOptions(), statusLabels()),
		errs:        map[string]string{},
	}
	f.description.Placeholder = "What happened? Markdown is rendered in the detail view."
	f.description.ShowLineNumbers = false
	f.description.CharLimit = 4000
	f.description.SetHeight(5)

	f.priority.SetValue(string(model.PriorityLow))
	f.status.SetValue(string(model.StatusOpen))

	if ticket == nil {
		f.status.disabled = true
	} else {
		d := ticket.Draft()
		f.ticketID = ticket.ID
		f.title.SetValue(d.Title)
		f.description.SetValue(d.Description)
		f.assignee.SetValue(d.Assignee)
		f.tags = d.Tags
		if d.Priority != model.PriorityUnset {
			f.priority.SetValue(string(d.Priority))
		}
		if d.Status != model.StatusUnset {
			f.status.SetValue(string(d.Status))
		}
	}
	f.setFocus(fieldTitle)
	return f
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = limit
	return in
}

func priorityOptions() []string {
	out := make([]string, len(model.Priorities))
	for i, p := range model.Priorities {
		out[i] = string(p)
	}
	return out
}

func statusOptions() []string {
	out := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		out[i] = string(s)
	}
	return out
}

func statusLabels() []string {
	out := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		out[i] = StatusLabel(s)
	}
	return out
}

// IsNew reports whether the form creates a ticket.
func (f *EditForm) IsNew() bool { return f.ticketID == 0 }

// TicketID returns the id of the ticket being edited, zero for a new one.
func (f *EditForm) TicketID() int64 { return f.ticketID }

// Tags returns the committed tag entries.
func (f *EditForm) Tags() []string {
	out := make([]string, len(f.tags))
	copy(out, f.tags)
	return out
}

// Errors returns the field errors of the last failed save, keyed by field.
func (f *EditForm) Errors() map[string]string { return f.errs }

// Resolved reports whether the form already emitted its result.
func (f *EditForm) Resolved() bool { return f.resolved }

// Draft assembles the draft from the inputs. The status is left unset for
// new tickets so the server picks the initial status.
func (f *EditForm) Draft() model.Draft {
	d := model.Draft{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.description.Value()),
		Assignee:    strings.TrimSpace(f.assignee.Value()),
		Tags:        f.Tags(),
		Priority:    model.Priority(f.priority.Value()),
	}
	if !f.IsNew() {
		d.Status = model.Status(f.status.Value())
	}
	return d
}

// SetTitle fills the title input.
func (f *EditForm) SetTitle(s string)       { f.title.SetValue(s) }
func (f *EditForm) SetDescription(s string) { f.description.SetValue(s) }
func (f *EditForm) SetAssignee(s string)    { f.assignee.SetValue(s) }

// AddTag commits a tag entry. Entries that are empty after trimming, or
// that contain the tag separator, are rejected.
func (f *EditForm) AddTag(raw string) error {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return errors.New("tag cannot be empty")
	}
	if strings.Contains(tag, model.TagSeparator) {
		return fmt.Errorf("tag cannot contain %q", model.TagSeparator)
	}
	f.tags = append(f.tags, tag)
	return nil
}

// RemoveTag removes the tag at index i.
func (f *EditForm) RemoveTag(i int) {
	if i < 0 || i >= len(f.tags) {
		return
	}
	f.tags = append(f.tags[:i], f.tags[i+1:]...)
	if f.tagCursor >= len(f.tags) {
		f.tagCursor = len(f.tags) - 1
	}
}

// TagCursor returns the index of the chip picked for removal, or -1.
func (f *EditForm) TagCursor() int { return f.tagCursor }

// updateTags handles a key on the tags field. With the input empty, left
// walks back over the chips and the picked chip is removed by backspace or
// delete; right past the last chip returns to the input.
func (f *EditForm) updateTags(msg tea.KeyMsg) tea.Cmd {
	if f.tagCursor >= 0 {
		switch {
		case key.Matches(msg, formKeys.Left):
			f.tagCursor = max(0, f.tagCursor-1)
			return nil
		case key.Matches(msg, formKeys.Right):
			if f.tagCursor++; f.tagCursor >= len(f.tags) {
				f.tagCursor = -1
			}
			return nil
		case key.Matches(msg, formKeys.RemoveTag):
			f.RemoveTag(f.tagCursor)
			return nil
		}
		f.tagCursor = -1
	}

	empty := f.tagInput.Value() == ""
	switch {
	case key.Matches(msg, formKeys.CommitTag):
		if err := f.AddTag(f.tagInput.Value()); err != nil {
			f.errs["tags"] = err.Error()
		} else {
			delete(f.errs, "tags")
			f.tagInput.SetValue("")
		}
		return nil
	case empty && len(f.tags) > 0 && key.Matches(msg, formKeys.Left):
		f.tagCursor = len(f.tags) - 1
		return nil
	case empty && msg.Type == tea.KeyBackspace:
		f.RemoveTag(len(f.tags) - 1)
		return nil
	}
	var cmd tea.Cmd
	f.tagInput, cmd = f.tagInput.Update(msg)
	return cmd
}

// Confirm validates the draft. On success it resolves the form with the
// draft; on failure it records the field errors, stays open and returns nil.
func (f *EditForm) Confirm() tea.Cmd {
	if f.resolved {
		return nil
	}
	d := f.Draft()
	if err := d.Validate(); err != nil {
		f.errs = map[string]string{}
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Fields {
				if _, seen := f.errs[fe.Field]; !seen {
					f.errs[fe.Field] = fe.Message
				}
			}
		}
		return nil
	}
	f.resolved = true
	res := FormResultMsg{TicketID: f.ticketID, Draft: d}
	return func() tea.Msg { return res }
}

// Cancel resolves the form without a draft.
func (f *EditForm) Cancel() tea.Cmd {
	if f.resolved {
		return nil
	}
	f.resolved = true
	res := FormResultMsg{TicketID: f.ticketID, Cancelled: true}
	return func() tea.Msg { return res }
}

func (f *EditForm) setFocus(field formField) {
	f.focus = field
	f.tagCursor = -1
	f.title.Blur()
	f.description.Blur()
	f.assignee.Blur()
	f.tagInput.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	case fieldAssignee:
		f.assignee.Focus()
	case fieldTags:
		f.tagInput.Focus()
	}
}

func (f *EditForm) moveFocus(delta int) {
	next := f.focus
	for {
		next = formField((int(next) + delta + int(formFieldCount)) % int(formFieldCount))
		if next != fieldStatus || !f.status.disabled {
			break
		}
	}
	f.setFocus(next)
}

// Update handles a key while the form is open.
func (f *EditForm) Update(msg tea.KeyMsg) tea.Cmd {
	if f.resolved {
		return nil
	}
	switch {
	case key.Matches(msg, formKeys.Cancel):
		return f.Cancel()
	case key.Matches(msg, formKeys.Save):
		return f.Confirm()
	case key.Matches(msg, formKeys.Next):
		f.moveFocus(1)
		return nil
	case key.Matches(msg, formKeys.Prev):
		f.moveFocus(-1)
		return nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		if msg.Type == tea.KeyEnter {
			f.moveFocus(1)
			return nil
		}
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldAssignee:
		if msg.Type == tea.KeyEnter {
			f.moveFocus(1)
			return nil
		}
		f.assignee, cmd = f.assignee.Update(msg)
	case fieldTags:
		return f.updateTags(msg)
	case fieldPriority:
		f.cycle(&f.priority, msg)
	case fieldStatus:
		f.cycle(&f.status, msg)
	}
	return cmd
}

func (f *EditForm) cycle(s *selector, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, formKeys.Right), msg.String() == " ":
		s.Next()
	case key.Matches(msg, formKeys.Left):
		s.Prev()
	}
}

func (f *EditForm) label(field formField, text string) string {
	if f.focus == field {
		return FocusedLabelStyle.Render(text)
	}
	return LabelStyle.Render(text)
}

func (f *EditForm) fieldError(field formField) string {
	if msg, ok := f.errs[formFieldNames[field]]; ok {
		return "\n" + LabelStyle.Render("") + ErrorTextStyle.Render(formFieldNames[field]+" "+msg)
	}
	return ""
}

// View renders the form body for a modal of the given inner width.
func (f *EditForm) View(width int) string {
	inputWidth := max(20, width-LabelStyle.GetWidth()-2)
	f.title.Width = inputWidth
	f.assignee.Width = inputWidth
	f.tagInput.Width = inputWidth
	f.description.SetWidth(inputWidth)

	heading := "New ticket"
	if !f.IsNew() {
		heading = fmt.Sprintf("Edit ticket #%d", f.ticketID)
	}

	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render(heading) + "\n")
	b.WriteString(f.label(fieldTitle, "Title *") + f.title.View() + f.fieldError(fieldTitle) + "\n")
	b.WriteString(f.label(fieldDescription, "Description *") + "\n" + f.description.View() + f.fieldError(fieldDescription) + "\n")
	b.WriteString(f.label(fieldAssignee, "Assignee") + f.assignee.View() + "\n")

	chips := make([]string, len(f.tags))
	for i, t := range f.tags {
		if f.focus == fieldTags && i == f.tagCursor {
			chips[i] = SelectedChipStyle.Render(t)
		} else {
			chips[i] = TagChipStyle.Render(t)
		}
	}
	b.WriteString(f.label(fieldTags, "Tags") + strings.Join(chips, " ") + "\n")
	b.WriteString(LabelStyle.Render("") + f.tagInput.View() + f.fieldError(fieldTags) + "\n")
	b.WriteString(f.label(fieldPriority, "Priority") + f.priority.View(f.focus == fieldPriority) + f.fieldError(fieldPriority) + "\n")
	b.WriteString(f.label(fieldStatus, "Status") + f.status.View(f.focus == fieldStatus) + f.fieldError(fieldStatus) + "\n")

	b.WriteString("\n" + HelpStyle.Render(fmt.Sprintf("%s • %s • %s • %s • %s",
		helpText(formKeys.Save), helpText(formKeys.Next), helpText(formKeys.CommitTag),
		helpText(formKeys.RemoveTag), helpText(formKeys.Cancel))))
	return b.String()
}
