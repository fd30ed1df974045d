// Package proptest provides rapid generators for the ticket domain so that
// property tests across packages draw tickets, filters and pages the same way.
//
// Example usage:
//
//	func TestSetTickets_LastWriteWins(t *testing.T) {
//		rapid.Check(t, func(rt *rapid.T) {
//			batches := proptest.SliceOfRange(1, 5, proptest.Tickets(0, 8))(rt)
//			...
//		})
//	}
package proptest

import (
	"time"

	"pgregory.net/rapid"

	"ticketdesk/pkg/model"
)

// epoch anchors generated timestamps so failures are reproducible.
var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// OneOf returns a generator that picks from the provided options.
func OneOf[T any](options ...T) func(*rapid.T) T {
	return func(t *rapid.T) T {
		return options[rapid.IntRange(0, len(options)-1).Draw(t, "index")]
	}
}

// SliceOfRange generates slices with length in [min, max].
func SliceOfRange[T any](min, max int, gen func(*rapid.T) T) func(*rapid.T) []T {
	return func(t *rapid.T) []T {
		n := rapid.IntRange(min, max).Draw(t, "slice_len")
		result := make([]T, n)
		for i := range result {
			result[i] = gen(t)
		}
		return result
	}
}

// Tag generates a single valid tag entry: non-empty, no separator, no
// surrounding whitespace.
func Tag(t *rapid.T) string {
	return rapid.StringMatching(`[a-z0-9][a-z0-9_-]{0,11}`).Draw(t, "tag")
}

// Tags generates between min and max valid tag entries.
func Tags(min, max int) func(*rapid.T) []string {
	return SliceOfRange(min, max, Tag)
}

// Ticket generates a server-shaped ticket with the given id.
func Ticket(id int64) func(*rapid.T) model.Ticket {
	return func(t *rapid.T) model.Ticket {
		created := epoch.Add(time.Duration(rapid.IntRange(0, 24*365).Draw(t, "created_h")) * time.Hour)
		return model.Ticket{
			ID:          id,
			Title:       rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,30}`).Draw(t, "title"),
			Description: rapid.StringMatching(`[A-Za-z][A-Za-z .]{0,60}`).Draw(t, "description"),
			Priority:    OneOf(model.Priorities...)(t),
			Status:      OneOf(model.Statuses...)(t),
			Assignee:    rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "assignee"),
			Tags:        Tags(0, 4)(t),
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Duration(rapid.IntRange(0, 72).Draw(t, "updated_h")) * time.Hour),
		}
	}
}

// Tickets generates between min and max tickets with distinct ids.
func Tickets(min, max int) func(*rapid.T) []model.Ticket {
	return func(t *rapid.T) []model.Ticket {
		n := rapid.IntRange(min, max).Draw(t, "ticket_count")
		base := rapid.Int64Range(1, 1_000_000).Draw(t, "base_id")
		items := make([]model.Ticket, n)
		for i := range items {
			items[i] = Ticket(base + int64(i))(t)
		}
		return items
	}
}

// Filter generates filters where each field is independently set or absent.
func Filter(t *rapid.T) model.Filter {
	return model.Filter{
		Status:   OneOf(append([]model.Status{model.StatusUnset}, model.Statuses...)...)(t),
		Priority: OneOf(append([]model.Priority{model.PriorityUnset}, model.Priorities...)...)(t),
		Query:    OneOf("", "", "login", "crash report", "  ")(t),
	}
}

// PageRequest generates any valid page request.
func PageRequest(t *rapid.T) model.PageRequest {
	return model.PageRequest{
		Number: rapid.IntRange(0, 50).Draw(t, "page"),
		Size:   OneOf(5, 10, 25, 50)(t),
	}
}
