package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const (
	HeaderTitle    = "AI Chat Assistant"
	HeaderSubtitle = "Upload Excel files and chat with your data"
)

// Header represents the top header bar
type Header struct {
	width    int
	provider string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetProvider sets the provider name shown on the right
func (h *Header) SetProvider(name string) {
	h.provider = name
}

// View renders the header
func (h *Header) View() string {
	title := " " + HeaderTitle
	subtitle := "  " + HeaderSubtitle
	var right string
	if h.provider != "" {
		right = h.provider + " "
	}

	// Drop the subtitle before the title on narrow terminals
	free := h.width - runewidth.StringWidth(title) - runewidth.StringWidth(right)
	if runewidth.StringWidth(subtitle) > free {
		subtitle = runewidth.Truncate(subtitle, max(0, free), "…")
	}
	padding := max(0, free-runewidth.StringWidth(subtitle))

	return h.renderGradient(title, subtitle+strings.Repeat(" ", padding)+right)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// headerGradientStart and headerGradientEnd bound the header background
const (
	headerGradientStart = "#7C3AED"
	headerGradientEnd   = "#1F2937"
)

// renderGradient renders the bold title followed by muted rest over a
// primary-to-background gradient.
func (h *Header) renderGradient(title, rest string) string {
	runes := []rune(title + rest)
	if len(runes) == 0 {
		return ""
	}
	titleLen := len([]rune(title))

	startR, startG, startB := parseHexColor(headerGradientStart)
	endR, endG, endB := parseHexColor(headerGradientEnd)

	var result strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(len(runes))
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb)))
		if i < titleLen {
			style = style.Inherit(HeaderTitleStyle)
		} else {
			style = style.Inherit(HeaderSubtitleStyle)
		}
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
