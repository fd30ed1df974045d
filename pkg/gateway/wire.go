package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"ticketdesk/pkg/model"
)

// wireTimeLayouts are tried in order. The reference backend serializes local
// date-times without a zone, which are read as UTC.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// wireTime accepts the timestamp shapes the API is known to send.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = wireTime(time.Time{})
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = wireTime(time.Time{})
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// ticketWire is the API representation of a ticket; tags travel as a single
// comma-joined string.
type ticketWire struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Assignee    string   `json:"assignee"`
	Tags        string   `json:"tags"`
	CreatedAt   wireTime `json:"createdAt"`
	UpdatedAt   wireTime `json:"updatedAt"`
}

func (w ticketWire) toModel() model.Ticket {
	return model.Ticket{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Priority:    model.Priority(w.Priority),
		Status:      model.Status(w.Status),
		Assignee:    w.Assignee,
		Tags:        model.DecodeTags(w.Tags),
		CreatedAt:   time.Time(w.CreatedAt),
		UpdatedAt:   time.Time(w.UpdatedAt),
	}
}

// pageWire is the paginated list envelope.
type pageWire struct {
	Content       []ticketWire `json:"content"`
	TotalElements int          `json:"totalElements"`
	Number        int          `json:"number"`
	Size          int          `json:"size"`
}

func (w pageWire) toModel() model.TicketPage {
	items := make([]model.Ticket, len(w.Content))
	for i, t := range w.Content {
		items[i] = t.toModel()
	}
	return model.TicketPage{
		Items:         items,
		TotalElements: w.TotalElements,
		Number:        w.Number,
		Size:          w.Size,
	}
}

// draftWire is the body of create and update requests. Unset priority and
// status are omitted so the server keeps (or defaults) its own value;
// assignee and tags are always sent so they can be cleared.
type draftWire struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Assignee    string `json:"assignee"`
	Tags        string `json:"tags"`
}

func draftToWire(d model.Draft) draftWire {
	return draftWire{
		Title:       d.Title,
		Description: d.Description,
		Priority:    string(d.Priority),
		Status:      string(d.Status),
		Assignee:    d.Assignee,
		Tags:        model.EncodeTags(d.Tags),
	}
}

type loginWire struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type credentialWire struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt *wireTime `json:"expiresAt"`
}

func (w credentialWire) toModel() model.Credential {
	c := model.Credential{Token: w.Token, Username: w.Username, Role: w.Role}
	if w.ExpiresAt != nil {
		c.ExpiresAt = time.Time(*w.ExpiresAt)
	}
	return c
}
