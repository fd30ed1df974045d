// Package mockapi is an in-memory implementation of the ticket REST API for
// local development and tests. It mirrors the reference backend: bearer
// JWT auth, a rate-limited login, filtered and paginated listing, and
// {error} bodies on failures.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"ticketdesk/pkg/model"
)

// Options configures a Server. Zero values pick the defaults noted below.
type Options struct {
	Secret     string        // HS256 signing key; required
	TokenTTL   time.Duration // default 1h
	LoginLimit int           // login attempts per IP per minute, default 10
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Server serves the ticket API under /api.
type Server struct {
	store  *Store
	users  *Users
	tokens Tokens
	opts   Options
	logger zerolog.Logger
}

// NewServer creates a server over store and users.
func NewServer(store *Store, users *Users, opts Options) (*Server, error) {
	if opts.Secret == "" {
		return nil, errors.New("mockapi: secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.LoginLimit <= 0 {
		opts.LoginLimit = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		store:  store,
		users:  users,
		tokens: Tokens{secret: []byte(opts.Secret), ttl: opts.TokenTTL, now: opts.Now},
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.With(httprate.Limit(s.opts.LoginLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
			}),
		)).Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/tickets", s.listTickets)
			r.Post("/tickets", s.createTicket)
			r.Get("/tickets/{id}", s.getTicket)
			r.Patch("/tickets/{id}", s.updateTicket)
			r.With(requireRole(RoleAdmin)).Delete("/tickets/{id}", s.deleteTicket)
		})
	})
	return r
}

type ctxKey int

const claimsKey ctxKey = iota

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := s.tokens.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := r.Context().Value(claimsKey).(*Claims)
			if claims == nil || claims.Role != role {
				writeError(w, http.StatusForbidden, "You do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	role, err := s.users.Authenticate(in.Username, in.Password)
	if err != nil {
		s.logger.Info().Str("user", in.Username).Msg("login rejected")
		writeError(w, http.StatusForbidden, "Bad credentials")
		return
	}
	token, expires, err := s.tokens.Sign(in.Username, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"username":  in.Username,
		"role":      role,
		"expiresAt": expires,
	})
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	q := ListQuery{
		Status:   strings.TrimSpace(qv.Get("status")),
		Priority: strings.TrimSpace(qv.Get("priority")),
		Text:     qv.Get("q"),
		Page:     queryInt(qv.Get("page"), 0),
		Limit:    queryInt(qv.Get("limit"), model.DefaultPageSize),
	}
	if q.Limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be positive")
		return
	}
	items, total, page := s.store.List(q)
	writeJSON(w, http.StatusOK, map[string]any{
		"content":       items,
		"totalElements": total,
		"number":        page,
		"size":          q.Limit,
	})
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.store.Get(id)
	if err != nil {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var f TicketFields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validateCreate(f); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusCreated, s.store.Create(f))
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var f TicketFields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := validateEnums(f); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	t, err := s.store.Patch(id, f)
	if err != nil {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeNotFound(w, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateCreate(f TicketFields) string {
	switch {
	case f.Title == nil || strings.TrimSpace(*f.Title) == "":
		return "title is required"
	case f.Description == nil || strings.TrimSpace(*f.Description) == "":
		return "description is required"
	case f.Priority == nil || *f.Priority == "":
		return "priority is required"
	}
	return validateEnums(f)
}

func validateEnums(f TicketFields) string {
	if f.Priority != nil && *f.Priority != "" && !model.Priority(*f.Priority).IsValid() {
		return "priority must be LOW, MEDIUM or HIGH"
	}
	if f.Status != nil && *f.Status != "" && !model.Status(*f.Status).IsValid() {
		return "status must be OPEN, IN_PROGRESS or CLOSED"
	}
	return ""
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter, falling back to def when it
// is missing or malformed.
func queryInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeNotFound(w http.ResponseWriter, id int64) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Ticket not found with id %d", id))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
