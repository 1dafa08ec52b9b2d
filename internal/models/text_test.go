package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpacing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normal", "One. Two.", "One. Two."},
		{"double spaces", "One.  Two.   Three.", "One. Two. Three."},
		{"stray periods", "a.  b...  c. . d.. ", "a. b. c. d."},
		{"newline gap", "First.\nSecond.", "First. Second."},
		{"trailing run", "done...", "done."},
		{"no period", "no sentence end", "no sentence end"},
		{"marker kept", "(---c---).  (---u---)", "(---c---). (---u---)"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSpacing(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeSpacing(got), "normalizing twice changed the text")
		})
	}
}

func TestSectionIndices(t *testing.T) {
	content := "(---u---) met with (---co---). (---cu---)."
	got := SectionIndices(content)
	want := []Range{{Start: 9, End: 19}, {Start: 41, End: 42}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SectionIndices() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, " met with ", content[got[0].Start:got[0].End])
	assert.Equal(t, 2, CountSections(content))
}

func TestSectionIndicesEdgeCases(t *testing.T) {
	assert.Empty(t, SectionIndices(""))
	assert.Empty(t, SectionIndices("(---c---)(---u---)"))
	assert.Empty(t, SectionIndices("(---c---). (---u---)"), "separator-only runs are not sections")

	got := SectionIndices("One. Two. Three")
	assert.Equal(t, []Range{{0, 5}, {5, 10}, {10, 15}}, got)
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []Range{{}}, Sentences(""))
	assert.Equal(t, []Range{{0, 5}, {5, 10}}, Sentences("A b. C d. "))
	assert.Equal(t, []Range{{0, 6}}, Sentences("no end"))
}

func TestSplitRun(t *testing.T) {
	segments := SplitRun(". body. ")
	assert.Equal(t, []Segment{
		{Range: Range{0, 2}, Section: false},
		{Range: Range{2, 8}, Section: true},
	}, segments)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "Hi [the client's name].", Preview("Hi   (---c---).", 0))
	assert.Equal(t, "Hi [the...", Preview("Hi (---c---).", 10))
	assert.Equal(t, "Hi", Preview("Hi (---c---).", 2))
}
