package render

// Line is one wrapped line with spans local to it.
type Line struct {
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
}

// Wrap breaks text into lines of at most width runes. Breaks prefer the last space
// before the width and never fall inside a blank-class span: a blank that straddles the
// width moves whole to the next line, and one that starts the line stays whole even when
// it is wider than the line. Concatenating the returned texts gives back text.
func Wrap(text string, spans []Span, width int) []Line {
	if width < 1 {
		width = 1
	}
	runes := []rune(text)
	if len(runes) <= width {
		return []Line{{Text: text, Spans: spans}}
	}

	var lines []Line
	for len(runes) > width {
		p := splitPoint(runes, spans, width)
		lines = append(lines, Line{Text: string(runes[:p]), Spans: clip(spans, p)})
		runes = runes[p:]
		spans = shift(spans, p)
	}
	return append(lines, Line{Text: string(runes), Spans: spans})
}

// splitPoint returns where to end the current line. It is always > 0.
func splitPoint(runes []rune, spans []Span, width int) int {
	for _, s := range spans {
		if !s.Class.IsBlank() || s.Start >= width || s.End <= width {
			continue
		}
		if s.Start > 0 {
			return s.Start
		}
		return s.End
	}

	for i := width - 1; i >= 0; i-- {
		if runes[i] == ' ' && !insideBlank(spans, i) {
			return i + 1
		}
	}
	return width
}

func insideBlank(spans []Span, i int) bool {
	for _, s := range spans {
		if s.Start > i {
			return false
		}
		if s.Class.IsBlank() && i < s.End {
			return true
		}
	}
	return false
}

// clip keeps the parts of spans that fall before p.
func clip(spans []Span, p int) []Span {
	var out []Span
	for _, s := range spans {
		if s.Start >= p {
			break
		}
		s.End = min(s.End, p)
		if s.End > s.Start {
			out = append(out, s)
		}
	}
	return out
}

// shift keeps the parts of spans at or after p, moved left by p.
func shift(spans []Span, p int) []Span {
	var out []Span
	for _, s := range spans {
		if s.End <= p {
			continue
		}
		s.Start = max(s.Start-p, 0)
		s.End -= p
		if s.End > s.Start {
			out = append(out, s)
		}
	}
	return out
}
