package model

import (
	"fmt"
	"strings"
)

// TagSeparator joins tag entries on the wire.
const TagSeparator = ","

// Draft is an in-progress ticket edited before submission. Status is
// StatusUnset for new tickets; the server defaults it.
type Draft struct {
	Title       string
	Description string
	Assignee    string
	Tags        []string
	Priority    Priority
	Status      Status
}

// FieldError describes one failed constraint on a draft field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when a draft does not satisfy local form
// constraints. Such a draft never reaches the gateway.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid ticket: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks the draft's required fields and tag entries.
func (d Draft) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(d.Title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(d.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Message: "is required"})
	}
	if d.Priority != PriorityUnset && !d.Priority.IsValid() {
		fields = append(fields, FieldError{Field: "priority", Message: fmt.Sprintf("unknown value %q", d.Priority)})
	}
	if d.Status != StatusUnset && !d.Status.IsValid() {
		fields = append(fields, FieldError{Field: "status", Message: fmt.Sprintf("unknown value %q", d.Status)})
	}
	for i, tag := range d.Tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			fields = append(fields, FieldError{Field: "tags", Message: fmt.Sprintf("entry %d is empty", i+1)})
		} else if strings.Contains(trimmed, TagSeparator) {
			fields = append(fields, FieldError{Field: "tags", Message: fmt.Sprintf("entry %q contains %q", trimmed, TagSeparator)})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// EncodeTags joins tag entries into their wire form, "a,b,c".
func EncodeTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// DecodeTags splits the wire form back into entries. Entries are trimmed and
// empty entries dropped, so "" decodes to an empty (non-nil) slice.
func DecodeTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, TagSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
