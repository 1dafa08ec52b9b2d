package ui

import (
	"testing"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSession(t *testing.T, content string, people ...models.Person) *Session {
	t.Helper()
	svc, err := service.NewService(service.Options{LibraryDir: t.TempDir(), Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.NoError(t, svc.InitLibrary())
	for _, p := range people {
		require.NoError(t, svc.AddPerson(p))
	}
	return NewSession(svc, &models.Note{ID: "n", Content: content}, zaptest.NewLogger(t))
}

func send(s *Session, msgs ...tea.Msg) {
	for _, msg := range msgs {
		s.Update(msg)
	}
}

func typed(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestSessionFillsVocabularyAndFreeText(t *testing.T) {
	s := newTestSession(t, "Met at (---l---). (---cu---).")
	assert.Equal(t, 1, s.ordinal)
	assert.NotEmpty(t, s.filtered)

	send(s, typed("school"))
	require.Len(t, s.filtered, 1)
	send(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "the client's school", s.Note().Blanks[1].Display)
	assert.Equal(t, 2, s.ordinal)

	send(s, typed("went well"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, s.confirming)
	assert.True(t, s.Note().Blanks[2].Pending)

	send(s, typed("x"))
	assert.True(t, s.confirming)
	assert.Equal(t, "Please answer y or n.", s.statusMsg)

	send(s, typed("Y"))
	assert.False(t, s.confirming)
	assert.False(t, s.Note().Blanks[2].Pending)
	assert.Equal(t, "went well", s.Note().Blanks[2].Display)
	assert.True(t, s.Note().IsComplete())
	assert.Equal(t, "All blanks filled", s.statusMsg)

	assert.True(t, s.Dirty())
	send(s, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, s.Dirty())
}

func TestSessionRejectedFreeTextIsEditable(t *testing.T) {
	s := newTestSession(t, "(---cu---).")
	send(s, typed("draft"), tea.KeyMsg{Type: tea.KeyEnter}, typed("n"))

	assert.False(t, s.confirming)
	_, ok := s.Note().Blanks[1]
	assert.False(t, ok)
	assert.Equal(t, "draft", s.input.Value())
}

func TestSessionBindsBackReference(t *testing.T) {
	s := newTestSession(t, "(---g---) said (---p1b---) would call.",
		models.Person{ID: "g1", Name: "Pat", Role: blank.RoleGuardian})

	send(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Pat", s.Note().Blanks[1].Display)
	require.Equal(t, 2, s.ordinal)
	assert.Equal(t, []int{1}, s.targets)

	send(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "(---g---) said (---p1b@1@---) would call.", s.Note().Content)
	assert.Equal(t, "they", s.Note().Blanks[2].Display)
}

func TestSessionNavigation(t *testing.T) {
	s := newTestSession(t, "(---l---) (---a---) (---mo---)")
	send(s, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 3, s.ordinal)
	send(s, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, s.ordinal)
	send(s, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 3, s.ordinal)

	send(s, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, s.selected)

	send(s, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := s.View()
	assert.Contains(t, view, "0/3 filled")
	assert.Contains(t, view, "Blank #3")
}

func TestSessionWithoutBlanks(t *testing.T) {
	s := newTestSession(t, "Nothing to fill.")
	assert.Equal(t, 0, s.ordinal)
	send(s, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, s.View(), "This note has no blanks.")
}
