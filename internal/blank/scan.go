package blank

import (
	"regexp"
	"strings"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
)

var (
	markerPattern = regexp.MustCompile(`\(---[A-Za-z0-9_]*(?:@[0-9]+@)?---\)`)

	// Anything that opens and closes like a marker. Checked after valid markers are masked.
	delimitedPattern = regexp.MustCompile(`\(---[^()\n]*?---\)`)
)

const maskRune = '#'

// Match is the byte range of one marker within a text.
type Match struct {
	Start int
	End   int
}

// Text returns the marker text of m within s.
func (m Match) Text(s string) string {
	return s[m.Start:m.End]
}

// FindAll returns every marker in text, left to right.
func FindAll(text string) []Match {
	locs := markerPattern.FindAllStringIndex(text, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{Start: loc[0], End: loc[1]})
	}
	return matches
}

// Count returns the number of markers in text.
func Count(text string) int {
	return len(markerPattern.FindAllStringIndex(text, -1))
}

// CountBefore returns the number of markers that end at or before index.
func CountBefore(text string, index int) int {
	if index <= 0 {
		return 0
	}
	if index > len(text) {
		index = len(text)
	}
	n := 0
	for _, m := range FindAll(text) {
		if m.End > index {
			break
		}
		n++
	}
	return n
}

// MarkerAt returns the marker that contains byte index, if any.
func MarkerAt(text string, index int) (Match, bool) {
	for _, m := range FindAll(text) {
		if m.Start > index {
			break
		}
		if index >= m.Start && index < m.End {
			return m, true
		}
	}
	return Match{}, false
}

// Mask replaces the marker at m with filler of the same byte length so later scans
// skip it without shifting any offsets.
func Mask(text string, m Match) string {
	return text[:m.Start] + strings.Repeat(string(maskRune), m.End-m.Start) + text[m.End:]
}

// FindMalformed returns delimited runs that are not valid markers, such as
// "(---p1b@x@---)".
func FindMalformed(text string) []Match {
	masked := text
	for _, m := range FindAll(text) {
		masked = Mask(masked, m)
	}
	var bad []Match
	for _, loc := range delimitedPattern.FindAllStringIndex(masked, -1) {
		bad = append(bad, Match{Start: loc[0], End: loc[1]})
	}
	return bad
}

// CheckMarkers fails on the first delimited run that is not a valid marker.
func CheckMarkers(text string) error {
	bad := FindMalformed(text)
	if len(bad) == 0 {
		return nil
	}
	m := bad[0]
	return apperrors.MalformedMarkerError(m.Text(text), "not a recognized marker").
		WithContext("offset", m.Start)
}

// Decode parses every marker in text, left to right.
func Decode(text string) ([]Blank, error) {
	matches := FindAll(text)
	blanks := make([]Blank, 0, len(matches))
	for i, m := range matches {
		b, err := ParseMarker(m.Text(text))
		if err != nil {
			return nil, apperrors.GetAppError(err).WithContext("ordinal", i+1)
		}
		blanks = append(blanks, b)
	}
	return blanks, nil
}
