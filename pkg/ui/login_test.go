package ui_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"ticketdesk/pkg/gateway"
	"ticketdesk/pkg/model"
	"ticketdesk/pkg/session"
	"ticketdesk/pkg/ui"
)

func newLogin(auth ui.Authenticator) (*ui.LoginScreen, *session.Store) {
	sess := session.NewStore()
	return ui.NewLoginScreen(auth, sess, zerolog.New(io.Discard)), sess
}

func TestLoginErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"Rejected credentials",
			fmt.Errorf("login: %w", gateway.ErrInvalidCredentials),
			ui.MsgInvalidCredentials,
		},
		{
			"Server message",
			&gateway.APIError{Method: "POST", Path: "/auth/login", StatusCode: 500, Message: "Database unavailable"},
			"Database unavailable",
		},
		{
			"Unreachable server",
			errors.New("dial tcp: connection refused"),
			ui.MsgLoginFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, sess := newLogin(fakeAuth{err: tt.err})
			l.SetUsername("alice")
			l.SetPassword("secret")
			msgs := settle(l.Update, l.Submit())

			if got := l.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if l.Pending() {
				t.Error("Pending() still true after failure")
			}
			if sess.IsLoggedIn() {
				t.Error("session holds a credential after a failed login")
			}
			for _, m := range msgs {
				if _, ok := m.(ui.LoggedInMsg); ok {
					t.Error("LoggedInMsg emitted for a failed login")
				}
			}
		})
	}
}

func TestLoginMissingFields(t *testing.T) {
	for _, tc := range []struct{ user, pass string }{{"", "x"}, {"  ", "x"}, {"alice", ""}} {
		l, _ := newLogin(fakeAuth{})
		l.SetUsername(tc.user)
		l.SetPassword(tc.pass)
		if cmd := l.Submit(); cmd != nil {
			t.Errorf("Submit(%q, %q) issued a request", tc.user, tc.pass)
		}
		if l.Error() != ui.MsgCredentialsMissing {
			t.Errorf("Error() = %q, want %q", l.Error(), ui.MsgCredentialsMissing)
		}
	}
}

func TestLoginSuccessStoresCredential(t *testing.T) {
	l, sess := newLogin(fakeAuth{cred: model.Credential{Token: "tok-1", Role: "ADMIN"}})

	for _, r := range "alice" {
		l.Update(runeKey(r))
	}
	l.Update(tea.KeyMsg{Type: tea.KeyEnter}) // to password
	for _, r := range "secret" {
		l.Update(runeKey(r))
	}
	msgs := settle(l.Update, l.Update(tea.KeyMsg{Type: tea.KeyEnter}))

	if sess.Token() != "tok-1" {
		t.Errorf("Token() = %q, want tok-1", sess.Token())
	}
	var loggedIn *ui.LoggedInMsg
	for _, m := range msgs {
		if li, ok := m.(ui.LoggedInMsg); ok {
			loggedIn = &li
		}
	}
	if loggedIn == nil || loggedIn.Credential.Username != "alice" {
		t.Errorf("LoggedInMsg = %+v", loggedIn)
	}
	if l.Error() != "" {
		t.Errorf("Error() = %q after success", l.Error())
	}
}

func TestLoginIgnoresKeysWhilePending(t *testing.T) {
	l, _ := newLogin(fakeAuth{})
	l.SetUsername("alice")
	l.SetPassword("secret")
	if l.Submit() == nil {
		t.Fatal("Submit returned nil")
	}
	if !l.Pending() {
		t.Fatal("Pending() = false after Submit")
	}
	if l.Submit() != nil {
		t.Error("second Submit issued another request")
	}
	if l.Update(tea.KeyMsg{Type: tea.KeyEnter}) != nil {
		t.Error("key handled while pending")
	}
}
