package ui

import (
	"github.com/charmbracelet/lipgloss"

	"ticketdesk/pkg/model"
)

var (
	// --- Palette ---
	ColorPrimary     = lipgloss.Color("#BD93F9") // Draco Purple
	ColorSecondary   = lipgloss.Color("#6272A4") // Comment Blue/Gray
	ColorBg          = lipgloss.Color("#282A36") // Background
	ColorBgDark      = lipgloss.Color("#1E1F29") // Darker Background
	ColorBgHighlight = lipgloss.Color("#44475A") // Selection
	ColorText        = lipgloss.Color("#F8F8F2") // Foreground
	ColorSubtext     = lipgloss.Color("#BFBFBF") // Dimmer text

	// Status Colors
	ColorStatusOpen       = lipgloss.Color("#50FA7B") // Green
	ColorStatusInProgress = lipgloss.Color("#8BE9FD") // Cyan
	ColorStatusClosed     = lipgloss.Color("#6272A4") // Gray/Dim

	// Priority Colors
	ColorPrioHigh   = lipgloss.Color("#FF5555") // Red
	ColorPrioMedium = lipgloss.Color("#FFB86C") // Orange
	ColorPrioLow    = lipgloss.Color("#F1FA8C") // Yellow

	// Notification Colors
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorError   = lipgloss.Color("#FF5555")

	// --- Styles ---

	// Global Layout
	AppStyle = lipgloss.NewStyle().Padding(0, 0)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	// Modal dialogs spliced over the list.
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Background(ColorBgDark).
			Padding(1, 2)

	// List Item Styles
	ItemStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1).
			Border(lipgloss.HiddenBorder(), false, false, false, true).
			BorderForeground(ColorBg)

	SelectedItemStyle = ItemStyle.
				Background(ColorBgHighlight).
				BorderForeground(ColorPrimary).
				Bold(true)

	// Column Styles
	ColIDStyle       = lipgloss.NewStyle().Width(7).Foreground(ColorSecondary).Bold(true)
	ColPrioStyle     = lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
	ColStatusStyle   = lipgloss.NewStyle().Width(13).Align(lipgloss.Center).Bold(true)
	ColTitleStyle    = lipgloss.NewStyle().Foreground(ColorText)
	ColAssigneeStyle = lipgloss.NewStyle().Width(12).Foreground(ColorSecondary).Align(lipgloss.Right)
	ColAgeStyle      = lipgloss.NewStyle().Width(8).Foreground(ColorSecondary).Align(lipgloss.Right)
	ColTagsStyle     = lipgloss.NewStyle().Width(18).Foreground(ColorSubtext).Align(lipgloss.Right)

	// Detail View Styles
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Background(ColorBgHighlight).
				Bold(true).
				Padding(0, 1).
				MarginBottom(1)

	DetailMetaStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			MarginBottom(1)

	// Form Styles
	LabelStyle        = lipgloss.NewStyle().Width(13).Foreground(ColorSubtext)
	FocusedLabelStyle = LabelStyle.Foreground(ColorPrimary).Bold(true)
	DisabledStyle     = lipgloss.NewStyle().Foreground(ColorSecondary).Italic(true)
	ErrorTextStyle    = lipgloss.NewStyle().Foreground(ColorError)
	TagChipStyle      = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorSecondary).Padding(0, 1)
	SelectedChipStyle = TagChipStyle.Background(ColorPrimary)

	// Header/Footer
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBg).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Padding(0, 1)
)

// Theme carries the adaptive colors used by views that render with a
// specific lipgloss renderer (the board and the detail view).
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
	Highlight  lipgloss.AdaptiveColor
	Text       lipgloss.AdaptiveColor
	Open       lipgloss.AdaptiveColor
	InProgress lipgloss.AdaptiveColor
	Closed     lipgloss.AdaptiveColor
}

// DefaultTheme returns the Dracula-derived theme on the default renderer.
func DefaultTheme() Theme {
	return Theme{
		Renderer:   lipgloss.DefaultRenderer(),
		Primary:    lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary:  lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Border:     lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight:  lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},
		Text:       lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
		Open:       lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"},
		InProgress: lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#8BE9FD"},
		Closed:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
	}
}

// StatusColor returns the theme color for s.
func (t Theme) StatusColor(s model.Status) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusOpen:
		return t.Open
	case model.StatusInProgress:
		return t.InProgress
	case model.StatusClosed:
		return t.Closed
	default:
		return t.Text
	}
}

func GetStatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusOpen:
		return ColorStatusOpen
	case model.StatusInProgress:
		return ColorStatusInProgress
	case model.StatusClosed:
		return ColorStatusClosed
	default:
		return ColorText
	}
}

func GetPriorityColor(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityHigh:
		return ColorPrioHigh
	case model.PriorityMedium:
		return ColorPrioMedium
	case model.PriorityLow:
		return ColorPrioLow
	default:
		return ColorSubtext
	}
}

func GetPriorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔥"
	case model.PriorityMedium:
		return "⚡"
	case model.PriorityLow:
		return "☕"
	default:
		return ""
	}
}

// StatusLabel is the human-readable form of s ("IN PROGRESS").
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusOpen:
		return "OPEN"
	case model.StatusInProgress:
		return "IN PROGRESS"
	case model.StatusClosed:
		return "CLOSED"
	default:
		return "ANY"
	}
}
