package render

import (
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
)

// DisplayLine is one wrapped line of a laid-out document.
type DisplayLine struct {
	// Sentence is the 1-based sentence the line came from.
	Sentence     int    `json:"sentence"`
	Continuation bool   `json:"continuation"`
	Text         string `json:"text"`
	Spans        []Span `json:"spans"`
}

// Layout renders in.Content one sentence at a time and wraps each sentence on its own,
// so a sentence always starts a new line. The offsets in in are ignored; they are
// computed per sentence.
func (e *Engine) Layout(in Input) ([]DisplayLine, error) {
	if err := in.Focus.Validate(); err != nil {
		return nil, err
	}
	if err := blank.CheckMarkers(in.Content); err != nil {
		return nil, err
	}

	var lines []DisplayLine
	section := 0
	for i, sentence := range models.Sentences(in.Content) {
		res, err := e.Render(Input{
			Content:       in.Content[sentence.Start:sentence.End],
			Values:        in.Values,
			Focus:         in.Focus,
			BlankOffset:   blank.CountBefore(in.Content, sentence.Start),
			SectionOffset: section,
		})
		if err != nil {
			return nil, err
		}
		section = res.NextSection

		for j, line := range Wrap(res.Text, res.Spans, e.width()) {
			lines = append(lines, DisplayLine{
				Sentence:     i + 1,
				Continuation: j > 0,
				Text:         line.Text,
				Spans:        line.Spans,
			})
		}
	}
	return lines, nil
}

// PlainText joins laid-out lines into a single string, one line per row, with trailing
// spaces trimmed.
func PlainText(lines []DisplayLine) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(line.Text, " "))
	}
	return b.String()
}

// Flatten renders the whole document as one string without wrapping, for export.
func (e *Engine) Flatten(content string, values map[int]models.BlankValue) (string, error) {
	res, err := e.Render(Input{Content: content, Values: values})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
