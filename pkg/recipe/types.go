// Package recipe defines named filter presets ("recipes") that users keep in
// their config file and apply from the filter panel with a single key.
package recipe

import (
	"fmt"
	"strings"

	"ticketdesk/pkg/model"
)

// Recipe is a reusable, named ticket filter.
type Recipe struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Filters     FilterConfig `yaml:"filters,omitempty" json:"filters,omitempty"`
}

// FilterConfig mirrors model.Filter in config-file form. Values are matched
// case-insensitively; "in progress" and "in-progress" are accepted for
// IN_PROGRESS.
type FilterConfig struct {
	Status   string `yaml:"status,omitempty" json:"status,omitempty"`     // open, in_progress, closed
	Priority string `yaml:"priority,omitempty" json:"priority,omitempty"` // low, medium, high
	Query    string `yaml:"query,omitempty" json:"query,omitempty"`       // free text over title and description
}

// Filter converts the recipe into a model.Filter.
func (r Recipe) Filter() (model.Filter, error) {
	status, err := ParseStatus(r.Filters.Status)
	if err != nil {
		return model.Filter{}, fmt.Errorf("recipe %q: %w", r.Name, err)
	}
	priority, err := ParsePriority(r.Filters.Priority)
	if err != nil {
		return model.Filter{}, fmt.Errorf("recipe %q: %w", r.Name, err)
	}
	return model.Filter{
		Status:   status,
		Priority: priority,
		Query:    strings.TrimSpace(r.Filters.Query),
	}, nil
}

// Validate checks that the recipe is named and its filter values are known.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}
	_, err := r.Filter()
	return err
}

func normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseStatus parses a status name. The empty string yields StatusUnset.
func ParseStatus(s string) (model.Status, error) {
	if strings.TrimSpace(s) == "" {
		return model.StatusUnset, nil
	}
	st := model.Status(normalize(s))
	if !st.IsValid() {
		return model.StatusUnset, fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// ParsePriority parses a priority name. The empty string yields PriorityUnset.
func ParsePriority(s string) (model.Priority, error) {
	if strings.TrimSpace(s) == "" {
		return model.PriorityUnset, nil
	}
	p := model.Priority(normalize(s))
	if !p.IsValid() {
		return model.PriorityUnset, fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}
