package models

import (
	"regexp"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
)

// SentenceSeparator ends a sentence inside content.
const SentenceSeparator = ". "

// A period followed by a run of periods and whitespace that holds at least one space.
var sentenceGap = regexp.MustCompile(`\.[\s.]*\s[\s.]*`)

// Range is a half-open byte range of content.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the byte length of r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Segment is one piece of a prose run cut at sentence separators. The trailing ". "
// stays with the segment it ends. Section is false for pieces that hold nothing but
// whitespace and the separator; those are rendered but never numbered.
type Segment struct {
	Range
	Section bool
}

// NormalizeSpacing collapses every gap between sentences to exactly ". " and trims any
// trailing run of periods and whitespace to a single ".".
func NormalizeSpacing(content string) string {
	out := sentenceGap.ReplaceAllString(content, SentenceSeparator)

	trimmed := strings.TrimRight(out, " \t\r\n")
	if strings.HasSuffix(trimmed, ".") {
		return strings.TrimRight(trimmed, ".") + "."
	}
	return out
}

// SplitRun cuts a marker-free run after every sentence separator.
func SplitRun(run string) []Segment {
	var segments []Segment
	pos := 0
	for pos < len(run) {
		end := len(run)
		if i := strings.Index(run[pos:], SentenceSeparator); i >= 0 {
			end = pos + i + len(SentenceSeparator)
		}
		segments = append(segments, Segment{
			Range:   Range{Start: pos, End: end},
			Section: isSection(run[pos:end]),
		})
		pos = end
	}
	return segments
}

func isSection(text string) bool {
	body := strings.TrimSuffix(text, SentenceSeparator)
	return strings.TrimSpace(body) != ""
}

// Sentences splits content after every sentence separator. Empty content is a single
// empty sentence so layouts always have at least one line.
func Sentences(content string) []Range {
	if content == "" {
		return []Range{{}}
	}
	segments := SplitRun(content)
	ranges := make([]Range, 0, len(segments))
	for _, s := range segments {
		ranges = append(ranges, s.Range)
	}
	return ranges
}

// SectionIndices returns the numbered content sections of content: marker-free runs,
// cut at sentence separators, skipping separator-only and whitespace-only pieces.
// Section n (1-based) is element n-1.
func SectionIndices(content string) []Range {
	var sections []Range
	pos := 0
	collect := func(start, end int) {
		for _, seg := range SplitRun(content[start:end]) {
			if seg.Section {
				sections = append(sections, Range{Start: start + seg.Start, End: start + seg.End})
			}
		}
	}
	for _, m := range blank.FindAll(content) {
		collect(pos, m.Start)
		pos = m.End
	}
	collect(pos, len(content))
	return sections
}

// CountSections returns the number of content sections in content.
func CountSections(content string) int {
	return len(SectionIndices(content))
}

// Preview returns at most max runes of content with markers replaced by their
// unfilled prompts.
func Preview(content string, max int) string {
	var b strings.Builder
	pos := 0
	for _, m := range blank.FindAll(content) {
		b.WriteString(content[pos:m.Start])
		if bl, err := blank.ParseMarker(m.Text(content)); err == nil {
			b.WriteString(bl.DefaultDisplay())
		} else {
			b.WriteString(m.Text(content))
		}
		pos = m.End
	}
	b.WriteString(content[pos:])

	text := []rune(strings.Join(strings.Fields(b.String()), " "))
	if max <= 0 || len(text) <= max {
		return string(text)
	}
	if max <= 3 {
		return string(text[:max])
	}
	return string(text[:max-3]) + "..."
}
