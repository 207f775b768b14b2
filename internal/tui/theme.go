package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorGrabbedFg  = ac("25", "117")
	colorErrorFg    = ac("160", "203")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	styleGrabbed  = lipgloss.NewStyle().Foreground(colorGrabbedFg).Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(colorErrorFg)
)

// applyColorProfilePreference honors NO_COLOR and otherwise trusts termenv.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

func parseGlyphs(v string) glyphSet {
	if strings.EqualFold(strings.TrimSpace(v), "ascii") {
		return glyphSetASCII
	}
	return glyphSetUnicode
}

func (g glyphSet) twisty(hasChildren, collapsed bool) string {
	switch {
	case !hasChildren:
		return "  "
	case g == glyphSetASCII && collapsed:
		return "+ "
	case g == glyphSetASCII:
		return "- "
	case collapsed:
		return "▸ "
	default:
		return "▾ "
	}
}

func (g glyphSet) grabbed() string {
	if g == glyphSetASCII {
		return "* "
	}
	return "⇅ "
}
