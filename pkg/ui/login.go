package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"ticketdesk/pkg/gateway"
	"ticketdesk/pkg/session"
)

// Login form limits.
const credentialMaxLen = 16

// Messages shown by the login screen.
const (
	MsgInvalidCredentials = "The credentials are incorrect."
	MsgLoginFailed        = "Could not log in, please try again."
	MsgCredentialsMissing = "Username and password are required."
)

// LoginScreen collects a username and password and exchanges them for a
// session credential.
type LoginScreen struct {
	auth    Authenticator
	session *session.Store
	logger  zerolog.Logger

	username textinput.Model
	password textinput.Model
	spinner  spinner.Model
	focus    int

	pending bool
	errText string
}

// NewLoginScreen creates an empty login screen.
func NewLoginScreen(auth Authenticator, sess *session.Store, logger zerolog.Logger) *LoginScreen {
	u := textinput.New()
	u.Placeholder = "username"
	u.CharLimit = credentialMaxLen
	u.Prompt = ""
	u.Focus()

	p := textinput.New()
	p.Placeholder = "password"
	p.CharLimit = credentialMaxLen
	p.Prompt = ""
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &LoginScreen{auth: auth, session: sess, logger: logger, username: u, password: p, spinner: s}
}

// Error returns the message currently shown, if any.
func (l *LoginScreen) Error() string { return l.errText }

// Pending reports whether a login request is in flight.
func (l *LoginScreen) Pending() bool { return l.pending }

// SetUsername fills the username input.
func (l *LoginScreen) SetUsername(s string) { l.username.SetValue(s) }

// SetPassword fills the password input.
func (l *LoginScreen) SetPassword(s string) { l.password.SetValue(s) }

// Reset clears the inputs, e.g. after logout.
func (l *LoginScreen) Reset() {
	l.password.SetValue("")
	l.errText = ""
	l.pending = false
	l.focus = 0
	l.username.Focus()
	l.password.Blur()
}

// Submit validates the inputs and starts the login request.
func (l *LoginScreen) Submit() tea.Cmd {
	if l.pending {
		return nil
	}
	username := strings.TrimSpace(l.username.Value())
	password := l.password.Value()
	if username == "" || password == "" {
		l.errText = MsgCredentialsMissing
		return nil
	}
	l.pending = true
	l.errText = ""
	auth := l.auth
	login := func() tea.Msg {
		cred, err := auth.Login(context.Background(), username, password)
		return loginResultMsg{Credential: cred, Err: err}
	}
	return tea.Batch(login, l.spinner.Tick)
}

// Update handles keys and login results.
func (l *LoginScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg:
		l.pending = false
		if msg.Err != nil {
			l.errText = loginErrorText(msg.Err)
			l.logger.Warn().Err(msg.Err).Msg("login failed")
			return nil
		}
		l.session.SetCredential(msg.Credential)
		l.logger.Info().Str("user", msg.Credential.Username).Msg("logged in")
		cred := msg.Credential
		return func() tea.Msg { return LoggedInMsg{Credential: cred} }

	case spinner.TickMsg:
		if !l.pending {
			return nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if l.pending {
			return nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			if l.focus == 0 {
				l.toggleFocus()
				return nil
			}
			return l.Submit()
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			l.toggleFocus()
			return nil
		}
		var cmd tea.Cmd
		if l.focus == 0 {
			l.username, cmd = l.username.Update(msg)
		} else {
			l.password, cmd = l.password.Update(msg)
		}
		return cmd
	}
	return nil
}

func (l *LoginScreen) toggleFocus() {
	if l.focus == 0 {
		l.focus = 1
		l.username.Blur()
		l.password.Focus()
	} else {
		l.focus = 0
		l.password.Blur()
		l.username.Focus()
	}
}

// loginErrorText picks the message for a failed login: rejected
// credentials get their own text, otherwise the server's message or a
// generic one.
func loginErrorText(err error) string {
	if errors.Is(err, gateway.ErrInvalidCredentials) {
		return MsgInvalidCredentials
	}
	if msg := gateway.ServerMessage(err); msg != "" {
		return msg
	}
	return MsgLoginFailed
}

// View renders the login box centered on screen.
func (l *LoginScreen) View(width, height int) string {
	label := func(i int, s string) string {
		if l.focus == i {
			return FocusedLabelStyle.Render(s)
		}
		return LabelStyle.Render(s)
	}
	l.username.Width = credentialMaxLen + 1
	l.password.Width = credentialMaxLen + 1

	lines := []string{
		DetailTitleStyle.Render("ticketdesk · sign in"),
		label(0, "Username") + l.username.View(),
		label(1, "Password") + l.password.View(),
		"",
	}
	switch {
	case l.pending:
		lines = append(lines, l.spinner.View()+" Signing in…")
	case l.errText != "":
		lines = append(lines, ErrorTextStyle.Render(l.errText))
	default:
		lines = append(lines, HelpStyle.Render("enter sign in • tab switch field • ctrl+c quit"))
	}

	box := FocusedPanelStyle.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
