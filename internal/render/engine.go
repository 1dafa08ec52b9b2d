// Package render turns document content into display text plus a stream of tagged spans,
// and wraps that stream into fixed-width lines.
//
// The engine never styles anything. It reports which rune ranges are prose and which are
// blanks, and which of them the current focus emphasizes; internal/ui maps those classes
// to lipgloss styles and the CLI serializes them as JSON.
//
// Ordinals are global: a sentence rendered on its own is given the number of blanks and
// content sections that precede it, so its labels and value lookups match a render of the
// whole document.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
)

// DefaultWidth is the wrap width used when none is configured.
const DefaultWidth = 140

// Engine renders content at a fixed width.
type Engine struct {
	Width int
}

// NewEngine creates a new Engine; widths below 1 fall back to DefaultWidth
func NewEngine(width int) *Engine {
	if width < 1 {
		width = DefaultWidth
	}
	return &Engine{Width: width}
}

// Input is one render request.
type Input struct {
	Content string
	// Values holds resolved blanks keyed by ordinal. Nil renders every blank unfilled.
	Values map[int]models.BlankValue
	Focus  Focus
	// BlankOffset and SectionOffset count the blanks and sections before Content.
	BlankOffset   int
	SectionOffset int
}

// Result is rendered text and the spans that cover it.
type Result struct {
	Text  string
	Spans []Span
	// NextBlank and NextSection are the offsets for whatever follows this render.
	NextBlank   int
	NextSection int
}

// Render performs a single pass over in.Content.
func (e *Engine) Render(in Input) (*Result, error) {
	if err := in.Focus.Validate(); err != nil {
		return nil, err
	}
	if err := blank.CheckMarkers(in.Content); err != nil {
		return nil, err
	}

	r := &renderer{
		width:   e.width(),
		in:      in,
		blanks:  in.BlankOffset,
		section: in.SectionOffset,
	}

	if in.Content == "" {
		r.spans = append(r.spans, Span{Class: Content})
		return r.result(), nil
	}

	pos := 0
	for _, m := range blank.FindAll(in.Content) {
		r.prose(in.Content[pos:m.Start])
		if err := r.marker(m.Text(in.Content)); err != nil {
			return nil, err
		}
		pos = m.End
	}
	r.prose(in.Content[pos:])
	return r.result(), nil
}

func (e *Engine) width() int {
	if e == nil || e.Width < 1 {
		return DefaultWidth
	}
	return e.Width
}

type renderer struct {
	width   int
	in      Input
	text    strings.Builder
	spans   []Span
	runes   int
	blanks  int
	section int
}

func (r *renderer) emit(class Class, text string) {
	start := r.runes
	r.text.WriteString(text)
	r.runes += utf8.RuneCountInString(text)
	r.spans = append(r.spans, Span{Class: class, Start: start, End: r.runes})
}

// prose emits a marker-free run.
func (r *renderer) prose(run string) {
	if run == "" {
		return
	}
	segments := models.SplitRun(run)

	if !r.in.Focus.OnSections() {
		for _, seg := range segments {
			if seg.Section {
				r.section++
			}
		}
		r.emit(Content, run)
		return
	}

	for _, seg := range segments {
		text := run[seg.Start:seg.End]
		if !seg.Section {
			r.emit(UnhighlightedContent, text)
			continue
		}
		r.section++
		class := UnhighlightedContent
		if r.section == r.in.Focus.Section {
			class = HighlightedContent
		}
		r.emit(class, fmt.Sprintf("[%d]: %s", r.section, text))
	}
}

// marker emits a blank's display text, chunked so no single span is wider than a line.
func (r *renderer) marker(text string) error {
	r.blanks++
	b, err := blank.ParseMarker(text)
	if err != nil {
		return err
	}

	display := b.DefaultDisplay()
	if v, ok := r.in.Values[r.blanks]; ok && !v.Pending && v.Display != "" {
		display = v.Display
	}

	class := Blank
	switch {
	case r.in.Focus.OnBlanks() && r.in.Focus.Blank == r.blanks:
		class = HighlightedBlank
	case r.in.Focus.OnBlanks():
		class = UnhighlightedBlank
	case r.in.Focus.OnSections():
		class = UnfocusedBlank
	}

	for _, chunk := range chunk(display, r.width) {
		r.emit(class, chunk)
	}
	return nil
}

func (r *renderer) result() *Result {
	return &Result{
		Text:        r.text.String(),
		Spans:       r.spans,
		NextBlank:   r.blanks,
		NextSection: r.section,
	}
}

// chunk splits text longer than width runes into pieces of width-1 runes.
func chunk(text string, width int) []string {
	runes := []rune(text)
	if len(runes) <= width {
		return []string{text}
	}
	size := width - 1
	if size < 1 {
		size = 1
	}
	chunks := make([]string, 0, len(runes)/size+1)
	for len(runes) > 0 {
		n := min(size, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
