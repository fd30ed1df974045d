package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// selector cycles through a fixed set of options; index 0 is the "unset"
// option where the field allows one.
type selector struct {
	options  []string
	labels   []string
	index    int
	disabled bool
}

func newSelector(options, labels []string) selector {
	return selector{options: options, labels: labels}
}

func (s selector) Value() string { return s.options[s.index] }

func (s *selector) SetValue(v string) {
	for i, o := range s.options {
		if o == v {
			s.index = i
			return
		}
	}
	s.index = 0
}

func (s *selector) Next() {
	if s.disabled {
		return
	}
	s.index = (s.index + 1) % len(s.options)
}

func (s *selector) Prev() {
	if s.disabled {
		return
	}
	s.index = (s.index - 1 + len(s.options)) % len(s.options)
}

func (s selector) View(focused bool) string {
	if s.disabled {
		return DisabledStyle.Render(s.labels[s.index] + " (set by server)")
	}
	parts := make([]string, len(s.labels))
	for i, label := range s.labels {
		switch {
		case i == s.index && focused:
			parts[i] = SelectedChipStyle.Render(label)
		case i == s.index:
			parts[i] = TagChipStyle.Render(label)
		default:
			parts[i] = lipgloss.NewStyle().Foreground(ColorSubtext).Padding(0, 1).Render(label)
		}
	}
	return strings.Join(parts, "")
}
