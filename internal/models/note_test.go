package models

import (
	"strings"
	"testing"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeople() People {
	return People{
		{ID: "client-1", Name: "Jo", Role: blank.RoleClient, Pronouns: Pronouns{Subject: "she", Object: "her", Possessive: "her", PossessivePronoun: "hers"}},
		{ID: "staff-1", Name: "Sam", Role: blank.RoleUser},
	}
}

func TestNewNote(t *testing.T) {
	tmpl := &Template{ID: "intake", Content: "(---u---) met (---c---)."}
	n := NewNote("n1", tmpl, "staff-1", "client-1")

	assert.Equal(t, "intake", n.TemplateID)
	assert.Equal(t, tmpl.Content, n.Content)
	assert.NotNil(t, n.Blanks)

	filled, total := n.Progress()
	assert.Equal(t, 0, filled)
	assert.Equal(t, 2, total)
	assert.False(t, n.IsComplete())
}

func TestInsertBlank(t *testing.T) {
	n := NewNote("n1", &Template{Content: "Met with"}, "", "")

	ordinal, err := n.InsertBlank(blank.New(blank.KindClient))
	require.NoError(t, err)
	assert.Equal(t, 1, ordinal)
	assert.Equal(t, "Met with (---c---)", n.Content)

	ordinal, err = n.InsertBlank(blank.BackReference(blank.KindPronoun1ForBlank, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, ordinal)
	assert.Equal(t, "Met with (---c---) (---p1b@1@---)", n.Content)

	_, err = n.InsertBlank(blank.BackReference(blank.KindPronoun1ForBlank, 3))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference))
	assert.Equal(t, 2, blank.Count(n.Content), "rejected insert left content untouched")
}

func TestInsertBlankAtBeforeTarget(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---c---) met (---p1b@1@---) today"}, "", "")
	require.NoError(t, n.Fill(1, BlankValue{Display: "Jo", EntityIDs: []string{"client-1"}}))
	require.NoError(t, n.Fill(2, BlankValue{Display: "she"}))

	ordinal, err := n.InsertBlankAt(0, blank.New(blank.KindCurrentUser))
	require.NoError(t, err)
	assert.Equal(t, 1, ordinal)
	assert.Equal(t, "(---u---)(---c---) met (---p1b@2@---) today", n.Content)

	require.Len(t, n.Blanks, 2)
	assert.Equal(t, "Jo", n.Blanks[2].Display)
	assert.Equal(t, blank.BackReference(blank.KindPronoun1ForBlank, 2), n.Blanks[3].Blank)

	pronoun, err := n.ResolveBackReference(3, testPeople())
	require.NoError(t, err)
	assert.Equal(t, "she", pronoun)
}

func TestInsertBlankAtAfterTarget(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---c---) met (---p1b@1@---) today"}, "", "")
	require.NoError(t, n.Fill(1, BlankValue{Display: "Jo", EntityIDs: []string{"client-1"}}))

	ordinal, err := n.InsertBlankAt(9, blank.New(blank.KindCurrentUser))
	require.NoError(t, err)
	assert.Equal(t, 2, ordinal)
	assert.Equal(t, "(---c---)(---u---) met (---p1b@1@---) today", n.Content)
	assert.Equal(t, "Jo", n.Blanks[1].Display)

	pronoun, err := n.ResolveBackReference(3, testPeople())
	require.NoError(t, err)
	assert.Equal(t, "she", pronoun)
}

func TestInsertBlankAtSnapsOutOfMarker(t *testing.T) {
	n := NewNote("n1", &Template{Content: "Hi (---c---)"}, "", "")
	ordinal, err := n.InsertBlankAt(6, blank.New(blank.KindDate))
	require.NoError(t, err)
	assert.Equal(t, 1, ordinal)
	assert.Equal(t, "Hi (---dt---)(---c---)", n.Content)

	_, err = n.InsertBlankAt(0, blank.BackReference(blank.KindPronoun2ForBlank, 1))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference))
}

func TestReindexAfterInsert(t *testing.T) {
	n := &Note{
		Content: "(---c---) (---p1b@1@---) (---p2b@2@---)",
		Blanks: map[int]BlankValue{
			3: {Blank: blank.BackReference(blank.KindPronoun2ForBlank, 2), Display: "them"},
		},
	}
	require.NoError(t, n.ReindexAfterInsert(2))
	assert.Equal(t, "(---c---) (---p1b@1@---) (---p2b@3@---)", n.Content)
	assert.Equal(t, blank.BackReference(blank.KindPronoun2ForBlank, 3), n.Blanks[3].Blank)
}

func TestTruncateAtZeroDropsEverything(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---u---) met (---c---) and (---co---)."}, "", "")
	for i := 1; i <= 3; i++ {
		require.NoError(t, n.Fill(i, BlankValue{Display: "x"}))
	}

	n.Truncate(0)
	assert.Empty(t, n.Content)
	assert.Empty(t, n.Blanks)
}

func TestTruncateInsideMarker(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---u---) met (---c---) and (---co---)."}, "", "")
	for i := 1; i <= 3; i++ {
		require.NoError(t, n.Fill(i, BlankValue{Display: "x"}))
	}

	cut := strings.Index(n.Content, "(---c---)") + 3
	n.Truncate(cut)
	assert.Equal(t, "(---u---) met ", n.Content)
	assert.Len(t, n.Blanks, 1)
	assert.Contains(t, n.Blanks, 1)
}

func TestTruncateDropsDependentBackReferences(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---c---) said (---p1b@1@---) and (---co---) then (---p2b@3@---)"}, "", "")
	for i := 1; i <= 4; i++ {
		require.NoError(t, n.Fill(i, BlankValue{Display: "x"}))
	}

	n.Truncate(strings.Index(n.Content, "(---co---)"))
	assert.Len(t, n.Blanks, 2)
	assert.Contains(t, n.Blanks, 1)
	assert.Contains(t, n.Blanks, 2)
}

func TestRemoveBlanksFromDropsStaleReferences(t *testing.T) {
	n := &Note{
		Content: "(---c---) (---co---) (---p1b@2@---)",
		Blanks: map[int]BlankValue{
			1: {Blank: blank.New(blank.KindClient), Display: "Jo"},
			// stale entry that outlived its marker
			5: {Blank: blank.BackReference(blank.KindPronoun1ForBlank, 2), Display: "he"},
			2: {Blank: blank.New(blank.KindCollateral), Display: "Al"},
		},
	}
	n.RemoveBlanksFrom(strings.Index(n.Content, "(---co---)"))
	assert.Equal(t, []int{1}, keys(n.Blanks))
}

func TestTruncateWithoutMarkers(t *testing.T) {
	n := &Note{Content: "hello world"}
	n.Truncate(100)
	assert.Equal(t, "hello world", n.Content)
	n.Truncate(5)
	assert.Equal(t, "hello", n.Content)
	n.Truncate(-1)
	assert.Equal(t, "", n.Content)

	n = &Note{Content: "aé"}
	n.Truncate(2)
	assert.Equal(t, "a", n.Content)
}

func TestFill(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---c---) felt (---mo---)"}, "", "")

	err := n.Fill(3, BlankValue{Display: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBlankNotFound))

	err = n.Fill(2, BlankValue{Display: "  "})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	require.NoError(t, n.Fill(2, BlankValue{Blank: blank.New(blank.KindClient), Display: "calm"}))
	assert.Equal(t, blank.New(blank.KindMood), n.Blanks[2].Blank, "blank comes from the content")

	require.NoError(t, n.Fill(1, BlankValue{Display: "draft", Pending: true}))
	filled, total := n.Progress()
	assert.Equal(t, 1, filled)
	assert.Equal(t, 2, total)

	ordered, err := n.OrderedBlanks()
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.False(t, ordered[0].Filled, "pending values render as unfilled")
	assert.Equal(t, "[the client's name]", ordered[0].Display)
	assert.Equal(t, "calm", ordered[1].Display)
}

func TestRefillDropsStalePronouns(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---g---) said (---p1b@1@---) would come. (---c---) and (---cp1---) agreed."}, "", "")
	require.NoError(t, n.Fill(1, BlankValue{Display: "Ann", EntityIDs: []string{"g-ann"}}))
	require.NoError(t, n.Fill(2, BlankValue{Display: "she"}))
	require.NoError(t, n.Fill(3, BlankValue{Display: "Jo", EntityIDs: []string{"client-1"}}))
	require.NoError(t, n.Fill(4, BlankValue{Display: "she"}))

	require.NoError(t, n.Fill(1, BlankValue{Display: "Ann", EntityIDs: []string{"g-ann"}}))
	assert.Contains(t, n.Blanks, 2)

	require.NoError(t, n.Fill(1, BlankValue{Display: "Bob", EntityIDs: []string{"g-bob"}}))
	assert.NotContains(t, n.Blanks, 2)
	assert.Contains(t, n.Blanks, 4)

	require.NoError(t, n.Fill(3, BlankValue{Display: "Lee", EntityIDs: []string{"client-2"}}))
	assert.NotContains(t, n.Blanks, 4)
	assert.Equal(t, "Lee", n.Blanks[3].Display)
}

func TestClearDropsBackReferences(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---c---) (---p1b@1@---)"}, "", "")
	require.NoError(t, n.Fill(1, BlankValue{Display: "Jo"}))
	require.NoError(t, n.Fill(2, BlankValue{Display: "she"}))

	n.Clear(1)
	assert.Empty(t, n.Blanks)
}

func TestBindBackReference(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---c---) said (---p3b---) bag"}, "", "")
	require.NoError(t, n.BindBackReference(2, 1))
	assert.Equal(t, "(---c---) said (---p3b@1@---) bag", n.Content)

	err := n.BindBackReference(2, 2)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference))
	err = n.BindBackReference(1, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference))
	err = n.BindBackReference(7, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBlankNotFound))
}

func TestResolveBackReference(t *testing.T) {
	n := NewNote("n1", &Template{
		Content: "(---c---) felt (---mo---) and (---p1b@1@---) and (---p2b@2@---) and (---p3b@9@---) and (---p4b@6@---) (---p1b---)",
	}, "", "")
	require.NoError(t, n.Fill(1, BlankValue{Display: "Jo", EntityIDs: []string{"client-1"}}))
	require.NoError(t, n.Fill(2, BlankValue{Display: "calm"}))

	pronoun, err := n.ResolveBackReference(3, testPeople())
	require.NoError(t, err)
	assert.Equal(t, "she", pronoun)

	tests := []struct {
		name    string
		ordinal int
		code    apperrors.ErrorCode
	}{
		{"not a back-reference", 2, apperrors.ErrCodeInvalidBackReference},
		{"target is not a person", 4, apperrors.ErrCodeInvalidBackReference},
		{"target does not exist", 5, apperrors.ErrCodeInvalidBackReference},
		{"self reference", 6, apperrors.ErrCodeInvalidBackReference},
		{"unbound", 7, apperrors.ErrCodeInvalidBackReference},
		{"no such blank", 99, apperrors.ErrCodeBlankNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.ResolveBackReference(tt.ordinal, testPeople())
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestResolveBackReferenceTargetState(t *testing.T) {
	n := NewNote("n1", &Template{Content: "(---co---) and (---p2b@1@---)"}, "", "")

	_, err := n.ResolveBackReference(2, testPeople())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference), "unfilled target")

	require.NoError(t, n.Fill(1, BlankValue{Display: "Al"}))
	_, err = n.ResolveBackReference(2, testPeople())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference), "no person attached")

	require.NoError(t, n.Fill(1, BlankValue{Display: "Al", EntityIDs: []string{"nobody"}}))
	_, err = n.ResolveBackReference(2, testPeople())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidBackReference), "unknown person")

	require.NoError(t, n.Fill(1, BlankValue{Display: "Sam", EntityIDs: []string{"staff-1"}}))
	pronoun, err := n.ResolveBackReference(2, testPeople())
	require.NoError(t, err)
	assert.Equal(t, "them", pronoun, "missing pronouns fall back to they/them")
}

func keys(m map[int]BlankValue) []int {
	var out []int
	for k := range m {
		out = append(out, k)
	}
	return out
}
