package gateway

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader correlates client log lines with server logs.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means "not logged in" and no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Transport attaches the session's bearer token and a request id to every
// outgoing request, so individual gateway calls never deal with auth.
type Transport struct {
	Tokens TokenSource
	Base   http.RoundTripper
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(tokens TokenSource, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Tokens: tokens, Base: base}
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if t.Tokens != nil {
		if token := t.Tokens.Token(); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return t.Base.RoundTrip(out)
}
