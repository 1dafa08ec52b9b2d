package ui

import (
	"os"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - Adaptive based on terminal background
var (
	// Primary brand colors (work well on both light and dark)
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	// Semantic colors
	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	// Neutral colors (contrast-adaptive)
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
)

// Component styles, rebuilt by ApplyTheme
var (
	StyleTitle      lipgloss.Style
	StyleText       lipgloss.Style
	StyleTextMuted  lipgloss.Style
	StyleTextDim    lipgloss.Style
	StyleFocused    lipgloss.Style
	StyleUnselected lipgloss.Style
	StyleSuccess    lipgloss.Style
	StyleWarning    lipgloss.Style
	StyleError      lipgloss.Style
	StyleInfo       lipgloss.Style
	StyleCard       lipgloss.Style
	StyleFormLabel  lipgloss.Style
	StyleFormHelp   lipgloss.Style
	StyleMetadata   lipgloss.Style
	StyleGutter     lipgloss.Style

	// spanStyles maps each render class to the style it is painted with.
	spanStyles map[render.Class]lipgloss.Style
)

func init() {
	ApplyTheme("auto")
}

// ApplyTheme selects light or dark colors. "auto" honours GLAMOUR_STYLE and then the
// terminal background.
func ApplyTheme(theme string) {
	switch resolveTheme(theme) {
	case "light":
		setLightThemeColors()
	default:
		setDarkThemeColors()
	}
	buildStyles()
}

func resolveTheme(theme string) string {
	switch theme {
	case "light", "dark":
		return theme
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style == "light" || style == "dark" {
		return style
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")   // Bright magenta/pink
	ColorSecondary = lipgloss.Color("33")  // Bright cyan/blue
	ColorAccent = lipgloss.Color("214")    // Bright orange/yellow
	ColorSuccess = lipgloss.Color("10")    // Bright green
	ColorWarning = lipgloss.Color("11")    // Bright yellow
	ColorError = lipgloss.Color("9")       // Bright red
	ColorInfo = lipgloss.Color("12")       // Bright blue
	ColorText = lipgloss.Color("252")      // Near white
	ColorTextMuted = lipgloss.Color("244") // Light gray
	ColorTextDim = lipgloss.Color("240")   // Medium gray
	ColorBorder = lipgloss.Color("238")    // Dark gray
	ColorSurface = lipgloss.Color("236")   // Slightly lighter dark gray
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")   // Darker magenta for contrast
	ColorSecondary = lipgloss.Color("24")  // Darker cyan
	ColorAccent = lipgloss.Color("130")    // Darker orange
	ColorSuccess = lipgloss.Color("22")    // Dark green
	ColorWarning = lipgloss.Color("136")   // Dark yellow/orange
	ColorError = lipgloss.Color("160")     // Dark red
	ColorInfo = lipgloss.Color("24")       // Dark blue
	ColorText = lipgloss.Color("232")      // Near black
	ColorTextMuted = lipgloss.Color("240") // Dark gray
	ColorTextDim = lipgloss.Color("244")   // Medium gray
	ColorBorder = lipgloss.Color("248")    // Light gray
	ColorSurface = lipgloss.Color("254")   // Off-white
}

func buildStyles() {
	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 1)
	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)
	StyleUnselected = lipgloss.NewStyle().Foreground(ColorTextMuted).Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Padding(0, 1)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Padding(0, 1)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true).Padding(0, 1)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true).Padding(0, 1)

	StyleCard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	StyleFormLabel = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleFormHelp = lipgloss.NewStyle().Foreground(ColorTextDim).Italic(true).Padding(0, 3)
	StyleMetadata = lipgloss.NewStyle().Foreground(ColorTextDim).Padding(0, 1)
	StyleGutter = lipgloss.NewStyle().Foreground(ColorTextDim)

	spanStyles = map[render.Class]lipgloss.Style{
		render.Content:              lipgloss.NewStyle().Foreground(ColorText),
		render.HighlightedContent:   lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
		render.UnhighlightedContent: lipgloss.NewStyle().Foreground(ColorTextDim),
		render.Blank:                lipgloss.NewStyle().Foreground(ColorSecondary).Underline(true),
		render.HighlightedBlank:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(ColorPrimary).Bold(true),
		render.UnhighlightedBlank:   lipgloss.NewStyle().Foreground(ColorSecondary),
		render.UnfocusedBlank:       lipgloss.NewStyle().Foreground(ColorTextMuted).Faint(true),
	}
}

// SpanStyle returns the style a class is painted with
func SpanStyle(class render.Class) lipgloss.Style {
	if style, ok := spanStyles[class]; ok {
		return style
	}
	return StyleText
}

// CreateHelp renders a help line
func CreateHelp(text string) string {
	return StyleTextDim.Render(text)
}

// CreateStatus renders a status message of the given type
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateOption renders one menu option
func CreateOption(label string, isSelected bool) string {
	if isSelected {
		return StyleFocused.Render("▶ " + label)
	}
	return StyleUnselected.Render("  " + label)
}

// CreateContextualHelp joins essential key hints on one row, truncated to width
func CreateContextualHelp(essential []string, width int) string {
	text := strings.Join(essential, " • ")
	if width > 7 && len(text) > width-4 {
		text = text[:width-7] + "..."
	}
	return StyleTextDim.Render(text)
}

// AddMainPadding adds consistent left padding to main content
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}
