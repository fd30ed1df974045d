package ui_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"

	"ticketdesk/pkg/model"
	"ticketdesk/pkg/ui"
)

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func typeInto(f *ui.EditForm, s string) {
	for _, r := range s {
		f.Update(runeKey(r))
	}
}

func formResults(msgs []tea.Msg) []ui.FormResultMsg {
	var out []ui.FormResultMsg
	for _, m := range msgs {
		if r, ok := m.(ui.FormResultMsg); ok {
			out = append(out, r)
		}
	}
	return out
}

func TestEditFormRejectsMissingRequiredFields(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		blank := rapid.SampledFrom([]string{"", " ", "\t", "   "})
		title := rapid.OneOf(blank, rapid.StringMatching(`[A-Za-z]{1,10}`)).Draw(rt, "title")
		desc := rapid.OneOf(blank, rapid.StringMatching(`[A-Za-z]{1,10}`)).Draw(rt, "description")
		if strings.TrimSpace(title) != "" && strings.TrimSpace(desc) != "" {
			desc = ""
		}

		f := ui.NewEditForm(nil)
		f.SetTitle(title)
		f.SetDescription(desc)
		if cmd := f.Confirm(); cmd != nil {
			rt.Fatalf("Confirm resolved with title %q description %q", title, desc)
		}
		if f.Resolved() {
			rt.Fatal("form resolved despite validation errors")
		}
		errs := f.Errors()
		if strings.TrimSpace(title) == "" && errs["title"] == "" {
			rt.Error("missing title error")
		}
		if strings.TrimSpace(desc) == "" && errs["description"] == "" {
			rt.Error("missing description error")
		}
	})
}

func TestEditFormNewTicketDraft(t *testing.T) {
	f := ui.NewEditForm(nil)
	if !f.IsNew() {
		t.Fatal("IsNew() = false for a blank form")
	}
	f.SetTitle("  Printer jam ")
	f.SetDescription("Floor 3")
	f.SetAssignee("alice")
	if err := f.AddTag("hw"); err != nil {
		t.Fatal(err)
	}

	res := formResults(run(f.Confirm()))
	if len(res) != 1 {
		t.Fatalf("got %d results, want 1", len(res))
	}
	want := model.Draft{
		Title:       "Printer jam",
		Description: "Floor 3",
		Assignee:    "alice",
		Tags:        []string{"hw"},
		Priority:    model.PriorityLow,
		Status:      model.StatusUnset,
	}
	if res[0].TicketID != 0 || res[0].Cancelled || !reflect.DeepEqual(res[0].Draft, want) {
		t.Errorf("result = %+v, want draft %+v", res[0], want)
	}
}

func TestEditFormResolvesOnce(t *testing.T) {
	f := ui.NewEditForm(nil)
	f.SetTitle("t")
	f.SetDescription("d")
	if f.Confirm() == nil {
		t.Fatal("first Confirm returned nil")
	}
	if f.Confirm() != nil || f.Cancel() != nil {
		t.Error("form resolved twice")
	}
	if f.Update(tea.KeyMsg{Type: tea.KeyEsc}) != nil {
		t.Error("resolved form still handles keys")
	}
}

func TestEditFormCancel(t *testing.T) {
	f := ui.NewEditForm(&model.Ticket{ID: 9, Title: "t", Description: "d"})
	res := formResults(run(f.Update(tea.KeyMsg{Type: tea.KeyEsc})))
	if len(res) != 1 || !res[0].Cancelled || res[0].TicketID != 9 {
		t.Errorf("cancel result = %+v", res)
	}
}

func TestEditFormPrefillsExistingTicket(t *testing.T) {
	ticket := &model.Ticket{
		ID:          42,
		Title:       "Login broken",
		Description: "500 on submit",
		Assignee:    "bob",
		Tags:        []string{"auth", "web"},
		Priority:    model.PriorityHigh,
		Status:      model.StatusInProgress,
		CreatedAt:   time.Now(),
	}
	f := ui.NewEditForm(ticket)
	if f.IsNew() || f.TicketID() != 42 {
		t.Fatalf("IsNew() = %v, TicketID() = %d", f.IsNew(), f.TicketID())
	}
	if got, want := f.Draft(), ticket.Draft(); !reflect.DeepEqual(got, want) {
		t.Errorf("Draft() = %+v, want %+v", got, want)
	}

	f.RemoveTag(0)
	if ticket.Tags[0] != "auth" {
		t.Error("editing tags changed the source ticket")
	}
}

func TestEditFormTagEntryByKeys(t *testing.T) {
	f := ui.NewEditForm(nil)
	// title -> description -> assignee -> tags
	for i := 0; i < 3; i++ {
		f.Update(tea.KeyMsg{Type: tea.KeyTab})
	}

	typeInto(f, "printer,")
	typeInto(f, "office")
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := f.Tags(); !reflect.DeepEqual(got, []string{"printer", "office"}) {
		t.Fatalf("Tags() = %v", got)
	}

	// Committing an empty entry is rejected with a field error.
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if f.Errors()["tags"] == "" {
		t.Error("empty tag accepted without error")
	}

	// Backspace on an empty input removes the last tag.
	f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := f.Tags(); !reflect.DeepEqual(got, []string{"printer"}) {
		t.Errorf("Tags() after backspace = %v", got)
	}
}

func TestEditFormRemovesPickedTag(t *testing.T) {
	f := ui.NewEditForm(nil)
	for _, tag := range []string{"printer", "office", "urgent"} {
		if err := f.AddTag(tag); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		f.Update(tea.KeyMsg{Type: tea.KeyTab})
	}

	// Left from the empty input picks the last chip, then walks back.
	f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if f.TagCursor() != 1 {
		t.Fatalf("TagCursor() = %d, want 1", f.TagCursor())
	}
	f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := f.Tags(); !reflect.DeepEqual(got, []string{"printer", "urgent"}) {
		t.Fatalf("Tags() after removing the picked chip = %v", got)
	}

	// The cursor stays on the chip that moved into place; delete works too.
	f.Update(tea.KeyMsg{Type: tea.KeyDelete})
	if got := f.Tags(); !reflect.DeepEqual(got, []string{"printer"}) {
		t.Fatalf("Tags() after delete = %v", got)
	}

	// Right past the last chip returns to the input, and typing resumes.
	f.Update(tea.KeyMsg{Type: tea.KeyRight})
	if f.TagCursor() != -1 {
		t.Fatalf("TagCursor() = %d, want -1", f.TagCursor())
	}
	typeInto(f, "hw")
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := f.Tags(); !reflect.DeepEqual(got, []string{"printer", "hw"}) {
		t.Errorf("Tags() = %v", got)
	}
}

func TestEditFormAddTagRejectsSeparator(t *testing.T) {
	f := ui.NewEditForm(nil)
	for _, bad := range []string{"", "   ", "a,b"} {
		if err := f.AddTag(bad); err == nil {
			t.Errorf("AddTag(%q) accepted", bad)
		}
	}
	if len(f.Tags()) != 0 {
		t.Errorf("Tags() = %v, want none", f.Tags())
	}
}

func TestEditFormPriorityCycling(t *testing.T) {
	f := ui.NewEditForm(nil)
	for i := 0; i < 4; i++ {
		f.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	f.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := f.Draft().Priority; got != model.PriorityMedium {
		t.Errorf("priority after right = %q, want MEDIUM", got)
	}
	// Status is disabled for new tickets, so tab wraps back to the title.
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(f, "x")
	if f.Draft().Title != "x" {
		t.Errorf("focus did not wrap to title; Draft().Title = %q", f.Draft().Title)
	}
}

func TestEditFormViewShowsErrors(t *testing.T) {
	f := ui.NewEditForm(nil)
	f.Confirm()
	view := f.View(60)
	if !strings.Contains(view, "title is required") || !strings.Contains(view, "description is required") {
		t.Errorf("view does not show field errors:\n%s", view)
	}
	if !strings.Contains(view, "New ticket") {
		t.Error("view missing heading")
	}
}
