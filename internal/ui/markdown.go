package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// createGlamourRenderer creates a glamour renderer for the theme, falling back to the
// terminal's background when the theme is "auto"
func createGlamourRenderer(wordWrap int, theme string) (*glamour.TermRenderer, error) {
	if theme == "light" || theme == "dark" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(theme),
			glamour.WithWordWrap(wordWrap),
		)
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	var styleOption glamour.TermRendererOption
	switch {
	case profile != termenv.TrueColor && profile != termenv.ANSI256:
		styleOption = glamour.WithAutoStyle()
	case lipgloss.HasDarkBackground():
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithStandardStyle("light")
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// NoteMarkdown builds a markdown document from laid-out lines: a heading, then one
// paragraph per sentence with filled values in bold.
func NoteMarkdown(title string, lines []render.DisplayLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	var sentence strings.Builder
	bold := false
	flush := func() {
		if bold {
			sentence.WriteString("**")
			bold = false
		}
		if text := strings.TrimSpace(sentence.String()); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		sentence.Reset()
	}
	for i, line := range lines {
		if i > 0 && !line.Continuation {
			flush()
		}
		runes := []rune(line.Text)
		for _, span := range line.Spans {
			text := string(runes[clamp(span.Start, len(runes)):clamp(span.End, len(runes))])
			// chunks of one value are adjacent blank spans and share the emphasis
			if span.Class.IsBlank() != bold {
				sentence.WriteString("**")
				bold = !bold
			}
			sentence.WriteString(text)
		}
	}
	flush()
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderMarkdown renders markdown for the terminal at width
func RenderMarkdown(markdown string, width int, theme string) (string, error) {
	r, err := createGlamourRenderer(width, theme)
	if err != nil {
		return "", fmt.Errorf("failed to create glamour renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
