package ui

import (
	"strconv"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/mattn/go-runewidth"
)

// Painter turns laid-out lines into styled terminal text.
type Painter struct {
	// Gutter prefixes each sentence's first line with its number.
	Gutter bool
	// UpperHighlight shows highlighted content in capitals.
	UpperHighlight bool
	// Plain disables styling, for non-terminal output and tests.
	Plain bool
}

// NewPainter creates a new Painter with the gutter and capitalised highlights on
func NewPainter() *Painter {
	return &Painter{Gutter: true, UpperHighlight: true}
}

// Paint renders every line, one per row
func (p *Painter) Paint(lines []render.DisplayLine) string {
	width := p.gutterWidth(lines)
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		row := p.PaintLine(line)
		if p.Gutter {
			row = p.gutter(line, width) + row
		}
		rows = append(rows, strings.TrimRight(row, " "))
	}
	return strings.Join(rows, "\n")
}

// PaintLine styles one line span by span. Text not covered by a span is left plain.
func (p *Painter) PaintLine(line render.DisplayLine) string {
	runes := []rune(line.Text)
	var b strings.Builder
	pos := 0
	for _, span := range line.Spans {
		start, end := clamp(span.Start, len(runes)), clamp(span.End, len(runes))
		if start < pos || end <= start {
			continue
		}
		b.WriteString(string(runes[pos:start]))
		b.WriteString(p.style(span.Class, string(runes[start:end])))
		pos = end
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

func (p *Painter) style(class render.Class, text string) string {
	if p.UpperHighlight && (class == render.HighlightedContent || class == render.HighlightedBlank) {
		text = strings.ToUpper(text)
	}
	if p.Plain {
		return text
	}
	return SpanStyle(class).Render(text)
}

func (p *Painter) gutterWidth(lines []render.DisplayLine) int {
	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(strconv.Itoa(line.Sentence)); w > width {
			width = w
		}
	}
	return width
}

func (p *Painter) gutter(line render.DisplayLine, width int) string {
	label := ""
	if !line.Continuation {
		label = strconv.Itoa(line.Sentence)
	}
	text := runewidth.FillLeft(label, width) + " │ "
	if p.Plain {
		return text
	}
	return StyleGutter.Render(text)
}

func clamp(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i > n:
		return n
	}
	return i
}
