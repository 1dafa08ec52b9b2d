package render

import (
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinLines(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
	}
	return b.String()
}

func TestWrapFits(t *testing.T) {
	spans := []Span{{Class: Content, Start: 0, End: 5}}
	lines := Wrap("hello", spans, 140)
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0].Text)
	assert.Equal(t, spans, lines[0].Spans)
}

func TestWrapLongSentence(t *testing.T) {
	text := strings.Repeat("abcd ", 60)
	require.Len(t, text, 300)

	lines := Wrap(text, []Span{{Class: Content, Start: 0, End: 300}}, 140)
	require.Len(t, lines, 3)
	assert.Len(t, lines[0].Text, 140)
	assert.Len(t, lines[1].Text, 140)
	assert.Len(t, lines[2].Text, 20)
	for _, l := range lines[:2] {
		assert.True(t, strings.HasSuffix(l.Text, " "), "split after a space: %q", l.Text)
	}
	assert.Equal(t, []Span{{Class: Content, Start: 0, End: 20}}, lines[2].Spans)
	assert.Equal(t, text, joinLines(lines))
}

func TestWrapMovesStraddlingBlank(t *testing.T) {
	text := "aaaa BBBBBB cc"
	spans := []Span{
		{Class: Content, Start: 0, End: 5},
		{Class: Blank, Start: 5, End: 11},
		{Class: Content, Start: 11, End: 14},
	}

	got := Wrap(text, spans, 8)
	want := []Line{
		{Text: "aaaa ", Spans: []Span{{Class: Content, Start: 0, End: 5}}},
		{Text: "BBBBBB ", Spans: []Span{{Class: Blank, Start: 0, End: 6}, {Class: Content, Start: 6, End: 7}}},
		{Text: "cc", Spans: []Span{{Class: Content, Start: 0, End: 2}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapKeepsOversizedBlankWhole(t *testing.T) {
	text := "BBBBBBBBBB cc"
	spans := []Span{
		{Class: HighlightedBlank, Start: 0, End: 10},
		{Class: Content, Start: 10, End: 13},
	}

	lines := Wrap(text, spans, 4)
	require.Len(t, lines, 2)
	assert.Equal(t, "BBBBBBBBBB", lines[0].Text)
	assert.Equal(t, " cc", lines[1].Text)
}

func TestWrapIgnoresSpacesInsideBlanks(t *testing.T) {
	text := "[a b]cccccccc"
	spans := []Span{
		{Class: UnfocusedBlank, Start: 0, End: 5},
		{Class: Content, Start: 5, End: 13},
	}

	lines := Wrap(text, spans, 8)
	require.Len(t, lines, 2)
	assert.Equal(t, "[a b]ccc", lines[0].Text)
	assert.Equal(t, "ccccc", lines[1].Text)
	assert.Equal(t, Span{Class: UnfocusedBlank, Start: 0, End: 5}, lines[0].Spans[0])
}

func TestWrapHardSplit(t *testing.T) {
	text := strings.Repeat("x", 25)
	lines := Wrap(text, []Span{{Class: Content, Start: 0, End: 25}}, 10)
	require.Len(t, lines, 3)
	assert.Equal(t, []int{10, 10, 5}, []int{len(lines[0].Text), len(lines[1].Text), len(lines[2].Text)})
}

func TestWrapMultiByte(t *testing.T) {
	text := "ééé ééé ééé"
	lines := Wrap(text, []Span{{Class: Content, Start: 0, End: 11}}, 5)
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.True(t, utf8.ValidString(l.Text), "line %q", l.Text)
	}
	assert.Equal(t, text, joinLines(lines))
}

func TestWrapLongTokenIsIterative(t *testing.T) {
	text := strings.Repeat("z", 10000)
	lines := Wrap(text, []Span{{Class: Content, Start: 0, End: 10000}}, 1)
	assert.Len(t, lines, 10000)
}

func blankLengths(spans []Span) []int {
	var out []int
	for _, s := range spans {
		if s.Class.IsBlank() {
			out = append(out, s.Len())
		}
	}
	sort.Ints(out)
	return out
}

func TestWrapNeverSplitsBlanks(t *testing.T) {
	values := map[int]models.BlankValue{
		1: {Display: "Jordan Rivera"},
		2: {Display: "the school counselor"},
	}
	res, err := NewEngine(140).Render(Input{Content: example, Values: values, Focus: OnBlank(1)})
	require.NoError(t, err)
	want := blankLengths(res.Spans)

	for width := 1; width <= 40; width++ {
		lines := Wrap(res.Text, res.Spans, width)
		var got []Span
		for _, l := range lines {
			got = append(got, l.Spans...)
			assertCovers(t, l.Text, l.Spans)
		}
		assert.Equal(t, want, blankLengths(got), "width %d", width)
		assert.Equal(t, res.Text, joinLines(lines), "width %d", width)
	}
}
