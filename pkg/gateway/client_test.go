package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"pgregory.net/rapid"

	"ticketdesk/pkg/gateway"
	"ticketdesk/pkg/model"
	"ticketdesk/pkg/session"
	"ticketdesk/pkg/testutil/proptest"
)

// recorder captures what the fake API received.
type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func (r *recorder) record(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	req.Body = io.NopCloser(strings.NewReader(string(body)))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	r.bodies = append(r.bodies, string(body))
}

func (r *recorder) last(t *testing.T) (*http.Request, string) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		t.Fatal("no request received")
	}
	return r.requests[len(r.requests)-1], r.bodies[len(r.bodies)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const sampleTicket = `{"id":3,"title":"Printer jam","description":"Floor 3","priority":"HIGH",` +
	`"status":"OPEN","assignee":"ana","tags":"hw,office","createdAt":"2025-03-01T10:00:00",` +
	`"updatedAt":"2025-03-01T11:30:00.123"}`

func newFakeAPI(t *testing.T, rec *recorder) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			rec.record(req)
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body struct{ Username, Password string }
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Password != "secret" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"token":     "tok-123",
			"username":  body.Username,
			"role":      "USER",
			"expiresAt": "2025-03-02T10:00:00Z",
		})
	})
	r.Get("/api/tickets", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"content":[`+sampleTicket+`],"totalElements":21,"number":2,"size":10}`)
	})
	r.Get("/api/tickets/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") != "3" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Ticket not found"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleTicket)
	})
	r.Post("/api/tickets", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, sampleTicket)
	})
	r.Patch("/api/tickets/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleTicket)
	})
	r.Delete("/api/tickets/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") == "500" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"msg": "database unavailable"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server, tokens gateway.TokenSource) *gateway.Client {
	t.Helper()
	hc := &http.Client{Transport: gateway.NewTransport(tokens, nil), Timeout: 5 * time.Second}
	c, err := gateway.New(srv.URL+"/api/", gateway.WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"localhost:8080", "ftp://example.com", "://"} {
		if _, err := gateway.New(raw); err == nil {
			t.Errorf("New(%q) succeeded, want error", raw)
		}
	}
}

func TestQueryValuesOmitsUnsetFilters(t *testing.T) {
	v := gateway.QueryValues(model.TicketQuery{PageRequest: model.DefaultPageRequest()})
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if strings.Join(keys, ",") != "limit,page" {
		t.Errorf("keys = %v, want [limit page]", keys)
	}
	if v.Get("page") != "0" || v.Get("limit") != "10" {
		t.Errorf("page/limit = %q/%q, want 0/10", v.Get("page"), v.Get("limit"))
	}
}

func TestQueryValuesProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		q := model.TicketQuery{Filter: proptest.Filter(rt), PageRequest: proptest.PageRequest(rt)}
		v := gateway.QueryValues(q)

		want := map[string]bool{"page": true, "limit": true}
		if q.Status != model.StatusUnset {
			want["status"] = true
		}
		if q.Priority != model.PriorityUnset {
			want["priority"] = true
		}
		if strings.TrimSpace(q.Query) != "" {
			want["q"] = true
		}
		if len(v) != len(want) {
			rt.Fatalf("query %v has keys %v, want %v", q, v, want)
		}
		for k := range want {
			if _, ok := v[k]; !ok {
				rt.Fatalf("query %v missing key %q", q, k)
			}
		}
		if q.Status != model.StatusUnset && v.Get("status") != string(q.Status) {
			rt.Fatalf("status = %q, want %q", v.Get("status"), q.Status)
		}
	})
}

func TestListTicketsSendsQueryAndAdoptsServerPage(t *testing.T) {
	rec := &recorder{}
	srv := newFakeAPI(t, rec)
	c := newClient(t, srv, nil)

	page, err := c.ListTickets(context.Background(), model.TicketQuery{
		Filter:      model.Filter{Status: model.StatusOpen, Query: "  printer "},
		PageRequest: model.PageRequest{Number: 5, Size: 10},
	})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	req, _ := rec.last(t)
	q := req.URL.Query()
	if q.Get("status") != "OPEN" || q.Get("q") != "printer" || q.Has("priority") {
		t.Errorf("unexpected query %v", q)
	}
	if page.Number != 2 || page.Size != 10 || page.TotalElements != 21 {
		t.Errorf("page = %+v, want server-echoed number 2 size 10 total 21", page)
	}
	if len(page.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(page.Items))
	}
	got := page.Items[0]
	if got.ID != 3 || got.Priority != model.PriorityHigh || got.Status != model.StatusOpen {
		t.Errorf("ticket = %+v", got)
	}
	if strings.Join(got.Tags, "|") != "hw|office" {
		t.Errorf("Tags = %v, want [hw office]", got.Tags)
	}
	wantCreated := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if !got.CreatedAt.Equal(wantCreated) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, wantCreated)
	}
}

func TestTransportAttachesBearerToken(t *testing.T) {
	rec := &recorder{}
	srv := newFakeAPI(t, rec)
	sess := session.NewStore()
	c := newClient(t, srv, sess)

	if _, err := c.ListTickets(context.Background(), model.TicketQuery{PageRequest: model.DefaultPageRequest()}); err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	req, _ := rec.last(t)
	if h := req.Header.Get("Authorization"); h != "" {
		t.Errorf("Authorization = %q before login, want none", h)
	}
	if req.Header.Get(gateway.RequestIDHeader) == "" {
		t.Error("request id header missing")
	}

	sess.SetCredential(model.Credential{Token: "tok-123", Username: "ana"})
	if _, err := c.GetTicket(context.Background(), 3); err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	req, _ = rec.last(t)
	if h := req.Header.Get("Authorization"); h != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", h, "Bearer tok-123")
	}
}

func TestGetTicketNotFound(t *testing.T) {
	srv := newFakeAPI(t, &recorder{})
	c := newClient(t, srv, nil)

	_, err := c.GetTicket(context.Background(), 99)
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if msg := gateway.ServerMessage(err); msg != "Ticket not found" {
		t.Errorf("ServerMessage = %q, want %q", msg, "Ticket not found")
	}
}

func TestCreateTicketBody(t *testing.T) {
	rec := &recorder{}
	srv := newFakeAPI(t, rec)
	c := newClient(t, srv, nil)

	_, err := c.CreateTicket(context.Background(), model.Draft{
		Title:       "Printer jam",
		Description: "Floor 3",
		Priority:    model.PriorityHigh,
		Tags:        []string{"hw", "office"},
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	req, body := rec.last(t)
	if req.Method != http.MethodPost || req.URL.Path != "/api/tickets" {
		t.Errorf("request = %s %s", req.Method, req.URL.Path)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(body), &sent); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if _, ok := sent["status"]; ok {
		t.Error("unset status was sent on create")
	}
	if sent["tags"] != "hw,office" {
		t.Errorf("tags = %v, want %q", sent["tags"], "hw,office")
	}
	if _, ok := sent["id"]; ok {
		t.Error("id sent in body")
	}
}

func TestUpdateTicketUsesPathID(t *testing.T) {
	rec := &recorder{}
	srv := newFakeAPI(t, rec)
	c := newClient(t, srv, nil)

	_, err := c.UpdateTicket(context.Background(), 3, model.Draft{
		Title: "t", Description: "d", Status: model.StatusClosed,
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	req, body := rec.last(t)
	if req.Method != http.MethodPatch || req.URL.Path != "/api/tickets/3" {
		t.Errorf("request = %s %s", req.Method, req.URL.Path)
	}
	if !strings.Contains(body, `"status":"CLOSED"`) || !strings.Contains(body, `"tags":""`) {
		t.Errorf("body = %s", body)
	}
	if strings.Contains(body, `"priority"`) {
		t.Errorf("unset priority sent: %s", body)
	}
}

func TestDeleteTicket(t *testing.T) {
	srv := newFakeAPI(t, &recorder{})
	c := newClient(t, srv, nil)

	if err := c.DeleteTicket(context.Background(), 3); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}

	err := c.DeleteTicket(context.Background(), 500)
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "database unavailable" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if errors.Is(err, gateway.ErrNotFound) {
		t.Error("500 matched ErrNotFound")
	}
}

// bareRoundTripper answers every request itself and, unlike
// http.Transport, leaves Response.Request unset.
type bareRoundTripper struct {
	got []*http.Request
}

func (rt *bareRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.got = append(rt.got, req)
	return &http.Response{StatusCode: http.StatusNoContent, Header: http.Header{}, Body: http.NoBody}, nil
}

func TestCustomRoundTripperWithoutResponseRequest(t *testing.T) {
	rt := &bareRoundTripper{}
	var logs bytes.Buffer
	c, err := gateway.New("http://tickets.test/api",
		gateway.WithHTTPClient(&http.Client{Transport: rt}),
		gateway.WithLogger(zerolog.New(&logs)))
	if err != nil {
		t.Fatal(err)
	}

	if err := c.DeleteTicket(context.Background(), 3); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	if len(rt.got) != 1 {
		t.Fatalf("round trips = %d, want 1", len(rt.got))
	}
	id := rt.got[0].Header.Get(gateway.RequestIDHeader)
	if id == "" {
		t.Fatal("request sent without a request id")
	}
	if !strings.Contains(logs.String(), id) {
		t.Errorf("log does not carry request id %s:\n%s", id, logs.String())
	}
}

func TestLogin(t *testing.T) {
	srv := newFakeAPI(t, &recorder{})
	c := newClient(t, srv, nil)

	cred, err := c.Login(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if cred.Token != "tok-123" || cred.Username != "ana" || cred.ExpiresAt.IsZero() {
		t.Errorf("credential = %+v", cred)
	}

	_, err = c.Login(context.Background(), "ana", "wrong")
	if !errors.Is(err, gateway.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestNetworkErrorIsWrapped(t *testing.T) {
	srv := newFakeAPI(t, &recorder{})
	c := newClient(t, srv, nil)
	srv.Close()

	_, err := c.GetTicket(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure reported as APIError: %v", err)
	}
}
