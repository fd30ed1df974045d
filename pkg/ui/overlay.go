package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay content placed at (anchorX, anchorY). Truncation is ANSI-aware so
// escape sequences on both sides of the overlay survive.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := 0
	for _, l := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(l))
	}

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			if pad := anchorX - ansi.StringWidth(prefix); pad > 0 {
				result.WriteString(strings.Repeat(" ", pad))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// CenterModal renders body inside ModalStyle and splices it over the
// middle of view.
func CenterModal(view, body string, screenWidth, screenHeight int) string {
	box := ModalStyle.Render(body)
	lines := strings.Split(box, "\n")
	w := lipgloss.Width(box)
	x := max(0, (screenWidth-w)/2)
	y := max(0, (screenHeight-len(lines))/2)

	// Make sure the base view is tall enough to host the modal.
	if have := strings.Count(view, "\n") + 1; have < y+len(lines) {
		view += strings.Repeat("\n", y+len(lines)-have)
	}
	return SpliceOverlay(view, lines, x, y)
}

// modalInnerWidth is the body width available inside a modal on a screen.
func modalInnerWidth(screenWidth int) int {
	return max(30, min(90, screenWidth-12))
}
