// Package ui provides the terminal user interface for ticketdesk.
// This file implements PageSnapshot, the summary shown in the status bar.
package ui

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"ticketdesk/pkg/model"
)

// PageSnapshot is an immutable summary of the tickets on the current page.
// It is rebuilt after every successful refresh and never mutated.
type PageSnapshot struct {
	Count      int
	ByStatus   map[model.Status]int
	ByPriority map[model.Priority]int

	// Ages of the tickets on the page, from creation to the snapshot time.
	MeanAge   time.Duration
	MedianAge time.Duration
	OldestAge time.Duration

	CreatedAt time.Time
}

// NewPageSnapshot summarizes tickets as of now.
func NewPageSnapshot(tickets []model.Ticket, now time.Time) *PageSnapshot {
	s := &PageSnapshot{
		Count:      len(tickets),
		ByStatus:   make(map[model.Status]int, len(model.Statuses)),
		ByPriority: make(map[model.Priority]int, len(model.Priorities)),
		CreatedAt:  now,
	}

	ages := make([]float64, 0, len(tickets))
	for _, t := range tickets {
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
		if t.CreatedAt.IsZero() {
			continue
		}
		ages = append(ages, now.Sub(t.CreatedAt).Hours())
	}

	if len(ages) > 0 {
		sort.Float64s(ages)
		s.MeanAge = hoursToDuration(stat.Mean(ages, nil))
		s.MedianAge = hoursToDuration(stat.Quantile(0.5, stat.Empirical, ages, nil))
		s.OldestAge = hoursToDuration(ages[len(ages)-1])
	}
	return s
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// IsEmpty returns true if the snapshot has no tickets.
func (s *PageSnapshot) IsEmpty() bool {
	return s == nil || s.Count == 0
}

// Share returns the fraction of the page with status st.
func (s *PageSnapshot) Share(st model.Status) float64 {
	if s.IsEmpty() {
		return 0
	}
	return float64(s.ByStatus[st]) / float64(s.Count)
}

// Summary renders the snapshot as a single status-bar line.
func (s *PageSnapshot) Summary() string {
	if s.IsEmpty() {
		return "no tickets"
	}
	return fmt.Sprintf("open %d %s • in progress %d • closed %d • high %d • median age %s",
		s.ByStatus[model.StatusOpen],
		RenderSparkline(s.Share(model.StatusOpen), 4),
		s.ByStatus[model.StatusInProgress],
		s.ByStatus[model.StatusClosed],
		s.ByPriority[model.PriorityHigh],
		formatAge(s.MedianAge),
	)
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
