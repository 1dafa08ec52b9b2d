package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const example = "(---u---) met with (---co---). (---cu---)."

func exampleValues() map[int]models.BlankValue {
	return map[int]models.BlankValue{
		1: {Display: "Jordan"},
		2: {Display: "the teacher"},
	}
}

// assertCovers checks spans are ordered, contiguous and cover all of text.
func assertCovers(t *testing.T, text string, spans []Span) {
	t.Helper()
	require.NotEmpty(t, spans)
	assert.Equal(t, 0, spans[0].Start)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].End, spans[i].Start, "gap or overlap before span %d", i)
	}
	assert.Equal(t, utf8.RuneCountInString(text), spans[len(spans)-1].End)
}

func spanText(text string, s Span) string {
	return string([]rune(text)[s.Start:s.End])
}

func TestRenderContentFocusExample(t *testing.T) {
	res, err := NewEngine(140).Render(Input{
		Content: example,
		Values:  exampleValues(),
		Focus:   OnSection(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan[1]:  met with the teacher. [free text of your choosing][2]: .", res.Text)
	want := []Span{
		{Class: UnfocusedBlank, Start: 0, End: 6},
		{Class: UnhighlightedContent, Start: 6, End: 21},
		{Class: UnfocusedBlank, Start: 21, End: 32},
		{Class: UnhighlightedContent, Start: 32, End: 34},
		{Class: UnfocusedBlank, Start: 34, End: 62},
		{Class: HighlightedContent, Start: 62, End: 68},
	}
	if diff := cmp.Diff(want, res.Spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "[2]: .", spanText(res.Text, res.Spans[5]))
	assert.Equal(t, 3, res.NextBlank)
	assert.Equal(t, 2, res.NextSection)
}

func TestRenderNoFocus(t *testing.T) {
	res, err := NewEngine(0).Render(Input{Content: "(---c---) met. Fine."})
	require.NoError(t, err)

	assert.Equal(t, "[the client's name] met. Fine.", res.Text)
	want := []Span{
		{Class: Blank, Start: 0, End: 19},
		{Class: Content, Start: 19, End: 30},
	}
	if diff := cmp.Diff(want, res.Spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, res.NextSection, "sections are counted without content focus")
}

func TestRenderBlankFocus(t *testing.T) {
	res, err := NewEngine(140).Render(Input{
		Content: "(---c---) and (---u---)",
		Values:  map[int]models.BlankValue{2: {Display: "Sam"}},
		Focus:   OnBlank(2),
	})
	require.NoError(t, err)

	require.Len(t, res.Spans, 3)
	assert.Equal(t, UnhighlightedBlank, res.Spans[0].Class)
	assert.Equal(t, Content, res.Spans[1].Class)
	assert.Equal(t, HighlightedBlank, res.Spans[2].Class)
	assert.Equal(t, "Sam", spanText(res.Text, res.Spans[2]))
}

func TestRenderOffsets(t *testing.T) {
	res, err := NewEngine(140).Render(Input{
		Content:       " and (---u---). Done.",
		Values:        map[int]models.BlankValue{2: {Display: "Sam"}},
		Focus:         OnSection(3),
		BlankOffset:   1,
		SectionOffset: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "[2]:  and Sam. [3]: Done.", res.Text)
	assert.Equal(t, 2, res.NextBlank)
	assert.Equal(t, 3, res.NextSection)
	assert.Equal(t, HighlightedContent, res.Spans[len(res.Spans)-1].Class)
}

func TestRenderPendingValueShowsPrompt(t *testing.T) {
	res, err := NewEngine(140).Render(Input{
		Content: "(---cu---)",
		Values:  map[int]models.BlankValue{1: {Display: "draft", Pending: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "[free text of your choosing]", res.Text)
}

func TestRenderEmptyContent(t *testing.T) {
	for _, focus := range []Focus{NoFocus(), OnSection(1), OnBlank(1)} {
		res, err := NewEngine(140).Render(Input{Focus: focus})
		require.NoError(t, err)
		assert.Empty(t, res.Text)
		assert.Equal(t, []Span{{Class: Content}}, res.Spans)
	}
}

func TestRenderChunksLongValues(t *testing.T) {
	res, err := NewEngine(10).Render(Input{
		Content: "(---cu---)",
		Values:  map[int]models.BlankValue{1: {Display: "abcdefghijklmnopqrstu"}},
	})
	require.NoError(t, err)

	want := []Span{
		{Class: Blank, Start: 0, End: 9},
		{Class: Blank, Start: 9, End: 18},
		{Class: Blank, Start: 18, End: 21},
	}
	if diff := cmp.Diff(want, res.Spans); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "abcdefghijklmnopqrstu", res.Text)
}

func TestChunkMultiByte(t *testing.T) {
	assert.Equal(t, []string{"éé", "éé", "é"}, chunk("ééééé", 3))
	assert.Equal(t, []string{"a", "b"}, chunk("ab", 1))
	assert.Equal(t, []string{"short"}, chunk("short", 10))
}

func TestRenderFocusConflict(t *testing.T) {
	_, err := NewEngine(140).Render(Input{Content: example, Focus: Focus{Blank: 1, Section: 1}})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeFocusConflict))

	_, err = NewEngine(140).Render(Input{Content: example, Focus: Focus{Blank: -1}})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidOrdinal))
}

func TestRenderMalformedMarker(t *testing.T) {
	for _, content := range []string{"Hi (---zz---).", "Hi (---p1b@x@---).", "(---c@2@---)"} {
		_, err := NewEngine(140).Render(Input{Content: content})
		require.Error(t, err, content)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMalformedMarker), "%s: %v", content, err)
	}
}

func TestRenderCoverage(t *testing.T) {
	contents := []string{
		example,
		"No markers at all. Just prose. ",
		"(---c---)(---u---)",
		"Ünïcödé (---mo---) text. Ænd more.",
		". . (---c---). ",
		"   ",
	}
	focuses := []Focus{NoFocus(), OnBlank(1), OnBlank(2), OnSection(1), OnSection(2)}

	for _, content := range contents {
		for _, focus := range focuses {
			res, err := NewEngine(8).Render(Input{Content: content, Values: exampleValues(), Focus: focus})
			require.NoError(t, err)
			assertCovers(t, res.Text, res.Spans)
		}
	}
}

func TestClassText(t *testing.T) {
	for _, c := range Classes() {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Class
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}
	assert.True(t, UnfocusedBlank.IsBlank())
	assert.False(t, HighlightedContent.IsBlank())
	assert.True(t, strings.HasPrefix(Class(42).String(), "class("))
}
