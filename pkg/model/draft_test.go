package model_test

import (
	"errors"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"ticketdesk/pkg/model"
	"ticketdesk/pkg/testutil/proptest"
)

func TestEncodeTags(t *testing.T) {
	if got := model.EncodeTags([]string{"a", "b", "c"}); got != "a,b,c" {
		t.Errorf("EncodeTags = %q, want %q", got, "a,b,c")
	}
	if got := model.EncodeTags(nil); got != "" {
		t.Errorf("EncodeTags(nil) = %q, want empty", got)
	}
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"Simple", "a,b,c", []string{"a", "b", "c"}},
		{"Empty string", "", []string{}},
		{"Whitespace around entries", " a , b ", []string{"a", "b"}},
		{"Empty entries dropped", "a,,b,", []string{"a", "b"}},
		{"Only separators", ",,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.DecodeTags(tt.in)
			if got == nil {
				t.Fatal("DecodeTags returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeTags(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagsRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tags := proptest.Tags(0, 6)(rt)
		got := model.DecodeTags(model.EncodeTags(tags))
		if len(got) != len(tags) {
			rt.Fatalf("round trip changed length: %v -> %v", tags, got)
		}
		for i := range tags {
			if got[i] != tags[i] {
				rt.Fatalf("round trip changed entry %d: %v -> %v", i, tags, got)
			}
		}
	})
}

func TestDraftValidate(t *testing.T) {
	valid := model.Draft{Title: "Printer jam", Description: "Floor 3", Priority: model.PriorityLow}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.Draft)
		field  string
	}{
		{"Empty title", func(d *model.Draft) { d.Title = "" }, "title"},
		{"Blank title", func(d *model.Draft) { d.Title = "   " }, "title"},
		{"Empty description", func(d *model.Draft) { d.Description = "" }, "description"},
		{"Unknown priority", func(d *model.Draft) { d.Priority = "URGENT" }, "priority"},
		{"Unknown status", func(d *model.Draft) { d.Status = "DONE" }, "status"},
		{"Blank tag", func(d *model.Draft) { d.Tags = []string{"ok", " "} }, "tags"},
		{"Tag with separator", func(d *model.Draft) { d.Tags = []string{"a,b"} }, "tags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if !verr.Has(tt.field) {
				t.Errorf("ValidationError %v does not name field %q", verr, tt.field)
			}
		})
	}
}

func TestTicketDraftCopiesTags(t *testing.T) {
	ticket := model.Ticket{ID: 7, Title: "t", Tags: []string{"x"}}
	d := ticket.Draft()
	d.Tags[0] = "changed"
	if ticket.Tags[0] != "x" {
		t.Error("Draft shares the ticket's tag slice")
	}
}

func TestTicketPageTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 0, 0},
	}
	for _, tt := range tests {
		p := model.TicketPage{TotalElements: tt.total, Size: tt.size}
		if got := p.TotalPages(); got != tt.want {
			t.Errorf("TotalPages(total=%d,size=%d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
