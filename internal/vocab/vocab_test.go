package vocab

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	assert.Contains(t, v.Values(blank.KindMood), "anxious")
	assert.NotEmpty(t, v.Kinds())
	for _, kind := range v.Kinds() {
		assert.Equal(t, blank.ResolveVocabulary, kind.Resolution(), "kind %v", kind)
		assert.NotEmpty(t, v.Values(kind))
	}
	assert.Empty(t, v.Values(blank.KindCustom))
}

func TestParseRejectsUnknownKinds(t *testing.T) {
	_, err := Parse([]byte("zz: [one]\n"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	_, err = Parse([]byte("p1b: [he]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("mo: {not: a list}\n"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFormat))
}

func TestMergeSkipsDuplicates(t *testing.T) {
	v, err := Parse([]byte("mo: [calm, sad]\n"))
	require.NoError(t, err)
	extra, err := Parse([]byte("mo: [Calm, hopeful]\ntp: [housing]\n"))
	require.NoError(t, err)

	v.Merge(extra)
	assert.Equal(t, []string{"calm", "sad", "hopeful"}, v.Values(blank.KindMood))
	assert.Equal(t, []string{"housing"}, v.Values(blank.KindTopic))
}

func TestSearch(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	results := v.Search(blank.KindContactMethod, "vid")
	require.NotEmpty(t, results)
	assert.Equal(t, "video call", results[0].Display)

	assert.Len(t, v.Search(blank.KindContactMethod, ""), len(v.Values(blank.KindContactMethod)))
	assert.Empty(t, v.Search(blank.KindContactMethod, "qqqq"))
}

func TestConfirmFreeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"yes", "went well\ny\n", "went well"},
		{"uppercase yes", "went well\nYES\n", "went well"},
		{"retry after unclear answer", "went well\nmaybe\nNo\nbetter words\nYes\n", "better words"},
		{"skips empty text", "\n  \nfine\ny", "fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := ConfirmFreeText(bufio.NewReader(strings.NewReader(tt.input)), &out, "Custom")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var out bytes.Buffer
	_, err := ConfirmFreeText(bufio.NewReader(strings.NewReader("went well\nmaybe\n")), &out, "Custom")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCancelled))
	assert.Contains(t, out.String(), "Please answer Y or N.")
}

func TestConsoleProviderPicksByNumber(t *testing.T) {
	var out bytes.Buffer
	p := NewConsoleProvider(strings.NewReader("2\n"), &out)

	choice, err := p.Resolve(Request{
		Blank:   blank.New(blank.KindCollateral),
		Ordinal: 3,
		Options: []Option{{Display: "Ms. Reyes", EntityID: "p1"}, {Display: "Dr. Olsen", EntityID: "p2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, Choice{Display: "Dr. Olsen", EntityIDs: []string{"p2"}}, choice)
	assert.Contains(t, out.String(), "Blank #3")
}

func TestConsoleProviderSearchesAndFallsBack(t *testing.T) {
	options := Options("face to face", "telephone", "video call")

	var out bytes.Buffer
	p := NewConsoleProvider(strings.NewReader("tele\n"), &out)
	choice, err := p.Resolve(Request{Blank: blank.New(blank.KindContactMethod), Ordinal: 1, Options: options})
	require.NoError(t, err)
	assert.Equal(t, "telephone", choice.Display)

	p = NewConsoleProvider(strings.NewReader("9\n0\ncarrier pigeon\ny\n"), &out)
	choice, err = p.Resolve(Request{Blank: blank.New(blank.KindContactMethod), Ordinal: 1, Options: options})
	require.NoError(t, err)
	assert.Equal(t, "carrier pigeon", choice.Display)
	assert.Contains(t, out.String(), "No option 9.")
}

func TestConsoleProviderCustomKind(t *testing.T) {
	var out bytes.Buffer
	p := NewConsoleProvider(strings.NewReader("talked about summer\ny\n"), &out)
	choice, err := p.Resolve(Request{Blank: blank.New(blank.KindCustom), Ordinal: 2, Options: Options("ignored")})
	require.NoError(t, err)
	assert.Equal(t, "talked about summer", choice.Display)
	assert.Contains(t, out.String(), "Confirm")
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{
		ByOrdinal: map[int]string{1: "ms. reyes"},
		ByKind:    map[blank.Kind]string{blank.KindMood: "calm"},
	}
	people := []Option{{Display: "Ms. Reyes", EntityID: "p1"}}

	choice, err := p.Resolve(Request{Blank: blank.New(blank.KindCollateral), Ordinal: 1, Options: people})
	require.NoError(t, err)
	assert.Equal(t, Choice{Display: "Ms. Reyes", EntityIDs: []string{"p1"}}, choice)

	choice, err = p.Resolve(Request{Blank: blank.New(blank.KindMood), Ordinal: 4})
	require.NoError(t, err)
	assert.Equal(t, "calm", choice.Display)

	_, err = p.Resolve(Request{Blank: blank.New(blank.KindTopic), Ordinal: 5})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	p.Strict = true
	_, err = p.Resolve(Request{Blank: blank.New(blank.KindMood), Ordinal: 4, Options: Options("sad")})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestMatchSharedNames(t *testing.T) {
	people := []Option{
		{Display: "Alex Kim", EntityID: "g1"},
		{Display: "alex kim", EntityID: "g2"},
		{Display: "Pat Wu", EntityID: "g3"},
	}
	assert.Len(t, Match(people, " Alex Kim "), 2)
	assert.Equal(t, []Option{{Display: "Pat Wu", EntityID: "g3"}}, Match(people, "pat wu"))
	assert.Empty(t, Match(people, "Sam"))
	assert.Len(t, Match(Options("calm", "calm"), "calm"), 1)

	p := StaticProvider{ByOrdinal: map[int]string{1: "Alex Kim"}}
	_, err := p.Resolve(Request{Blank: blank.New(blank.KindGuardian), Ordinal: 1, Options: people})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	var out bytes.Buffer
	console := NewConsoleProvider(strings.NewReader("alex kim\n2\n"), &out)
	choice, err := console.Resolve(Request{Blank: blank.New(blank.KindGuardian), Ordinal: 1, Options: people})
	require.NoError(t, err)
	assert.Equal(t, Choice{Display: "alex kim", EntityIDs: []string{"g2"}}, choice)
	assert.Contains(t, out.String(), "matches more than one option")
	assert.Contains(t, out.String(), "2) alex kim (g2)")
}
