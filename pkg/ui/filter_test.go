package ui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"

	"ticketdesk/pkg/model"
	"ticketdesk/pkg/recipe"
	"ticketdesk/pkg/testutil/proptest"
	"ticketdesk/pkg/ui"
)

func filterChanges(msgs []tea.Msg) []model.Filter {
	var out []model.Filter
	for _, m := range msgs {
		if fc, ok := m.(ui.FiltersChangedMsg); ok {
			out = append(out, fc.Filter)
		}
	}
	return out
}

func TestFilterPanelEmitsDraftUnmodified(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := proptest.Filter(rt)
		p := ui.NewFilterPanel(nil)
		p.SetDraft(f)

		got := filterChanges(run(p.Update(tea.KeyMsg{Type: tea.KeyEnter})))
		if len(got) != 1 || got[0] != f {
			rt.Fatalf("emitted %+v, want exactly %+v", got, f)
		}
	})
}

func TestFilterPanelCycleAndType(t *testing.T) {
	p := ui.NewFilterPanel(nil)
	p.Focus()
	p.Update(tea.KeyMsg{Type: tea.KeyRight}) // status: Any -> OPEN
	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p.Update(tea.KeyMsg{Type: tea.KeyLeft}) // priority: Any -> HIGH (wraps)
	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "vpn" {
		p.Update(runeKey(r))
	}

	want := model.Filter{Status: model.StatusOpen, Priority: model.PriorityHigh, Query: "vpn"}
	if got := p.Draft(); got != want {
		t.Errorf("Draft() = %+v, want %+v", got, want)
	}
}

func TestFilterPanelClear(t *testing.T) {
	p := ui.NewFilterPanel(nil)
	p.SetDraft(model.Filter{Status: model.StatusClosed, Query: "x"})

	got := filterChanges(run(p.Update(tea.KeyMsg{Type: tea.KeyCtrlX})))
	if len(got) != 1 || !got[0].IsEmpty() {
		t.Errorf("clear emitted %+v, want one empty filter", got)
	}
	if !p.Draft().IsEmpty() {
		t.Errorf("Draft() = %+v after clear", p.Draft())
	}
}

func TestFilterPanelClose(t *testing.T) {
	p := ui.NewFilterPanel(nil)
	msgs := run(p.Update(tea.KeyMsg{Type: tea.KeyEsc}))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	if _, ok := msgs[0].(ui.FilterPanelClosedMsg); !ok {
		t.Errorf("got %T, want FilterPanelClosedMsg", msgs[0])
	}
}

func TestFilterPanelPresets(t *testing.T) {
	presets := []recipe.Recipe{
		{Name: "open-high", Filters: recipe.FilterConfig{Status: "open", Priority: "high"}},
		{Name: "vpn", Filters: recipe.FilterConfig{Query: " vpn "}},
	}
	p := ui.NewFilterPanel(presets)

	first := filterChanges(run(p.Update(tea.KeyMsg{Type: tea.KeyCtrlP})))
	second := filterChanges(run(p.Update(tea.KeyMsg{Type: tea.KeyCtrlP})))
	third := filterChanges(run(p.Update(tea.KeyMsg{Type: tea.KeyCtrlP})))

	if len(first) != 1 || first[0] != (model.Filter{Status: model.StatusOpen, Priority: model.PriorityHigh}) {
		t.Errorf("first preset = %+v", first)
	}
	if len(second) != 1 || second[0] != (model.Filter{Query: "vpn"}) {
		t.Errorf("second preset = %+v", second)
	}
	if len(third) != 1 || third[0] != first[0] {
		t.Errorf("presets did not wrap: %+v", third)
	}
	if p.ApplyPreset(5) != nil {
		t.Error("out-of-range preset produced a command")
	}
}
