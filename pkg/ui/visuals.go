package ui

import "strings"

// RenderSparkline creates a textual bar of val (0.0 - 1.0) in width cells.
func RenderSparkline(val float64, width int) string {
	if width <= 0 {
		return ""
	}
	chars := []string{" ", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

	if val < 0 {
		val = 0
	}
	if val > 1 {
		val = 1
	}

	fullChars := int(val * float64(width))
	remainder := (val * float64(width)) - float64(fullChars)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", fullChars))

	if fullChars < width {
		idx := int(remainder * float64(len(chars)))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteString(chars[idx])
	}

	if padding := width - fullChars - 1; padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	return sb.String()
}
