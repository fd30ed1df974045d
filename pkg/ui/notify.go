package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NotificationTTL is how long a notification stays in the status bar.
const NotificationTTL = 5 * time.Second

// NotifyLevel distinguishes success from failure notifications.
type NotifyLevel int

const (
	NotifyInfo NotifyLevel = iota
	NotifySuccess
	NotifyError
)

// NotifyMsg asks the status bar to show Text.
type NotifyMsg struct {
	Level NotifyLevel
	Text  string
}

// Notify returns a command that emits a notification.
func Notify(level NotifyLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Level: level, Text: text}
	}
}

type notificationExpiredMsg struct {
	id int
}

// Notifier holds the most recent notification until it expires. A newer
// notification replaces an older one; only the expiry of the current one
// clears the bar.
type Notifier struct {
	current NotifyMsg
	visible bool
	id      int
	ttl     time.Duration
}

// NewNotifier creates a Notifier with the default TTL.
func NewNotifier() Notifier {
	return Notifier{ttl: NotificationTTL}
}

// Update handles NotifyMsg and expiry ticks.
func (n *Notifier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		n.id++
		n.current = msg
		n.visible = true
		id := n.id
		return tea.Tick(n.ttl, func(time.Time) tea.Msg {
			return notificationExpiredMsg{id: id}
		})
	case notificationExpiredMsg:
		if msg.id == n.id {
			n.visible = false
		}
	}
	return nil
}

// Current returns the visible notification, if any.
func (n Notifier) Current() (NotifyMsg, bool) {
	return n.current, n.visible
}

// View renders the visible notification or an empty string.
func (n Notifier) View() string {
	if !n.visible {
		return ""
	}
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch n.current.Level {
	case NotifySuccess:
		return style.Foreground(ColorSuccess).Render("✓ " + n.current.Text)
	case NotifyError:
		return style.Foreground(ColorError).Render("✗ " + n.current.Text)
	default:
		return style.Foreground(ColorSubtext).Render(n.current.Text)
	}
}
