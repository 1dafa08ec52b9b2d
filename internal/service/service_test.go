package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testClock = time.Date(2024, 5, 6, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, userID string) *Service {
	t.Helper()
	svc, err := NewService(Options{
		LibraryDir: t.TempDir(),
		WrapWidth:  80,
		UserID:     userID,
		Logger:     zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	next := 0
	svc.now = func() time.Time { return testClock }
	svc.newID = func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}
	require.NoError(t, svc.InitLibrary())
	return svc
}

func addPeople(t *testing.T, svc *Service) {
	t.Helper()
	for _, p := range []models.Person{
		{ID: "staff-1", Name: "Alex Rivera", Role: blank.RoleUser, Pronouns: models.Pronouns{Subject: "she", Object: "her", Possessive: "her", PossessivePronoun: "hers"}},
		{ID: "client-1", Name: "Jordan", Role: blank.RoleClient, Pronouns: models.Pronouns{Subject: "he", Object: "him", Possessive: "his", PossessivePronoun: "his"}, Goals: []string{"attend school daily", "use coping skills"}},
		{ID: "guardian-1", Name: "Pat", Role: blank.RoleGuardian},
		{ID: "teacher-1", Name: "Ms. Lee", Role: blank.RoleCollateral},
	} {
		require.NoError(t, svc.AddPerson(p))
	}
}

func TestInitLibrarySeedsDefaults(t *testing.T) {
	svc := newTestService(t, "")

	templates, err := svc.ListTemplates()
	require.NoError(t, err)
	assert.Len(t, templates, len(DefaultTemplates()))

	// seeding twice keeps edits
	tmpl, err := svc.GetTemplate("home-visit")
	require.NoError(t, err)
	tmpl.Name = "Renamed"
	require.NoError(t, svc.UpdateTemplate(tmpl))
	require.NoError(t, svc.InitLibrary())

	again, err := svc.GetTemplate("home-visit")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Name)
}

func TestDefaultTemplatesAreValid(t *testing.T) {
	for _, tmpl := range DefaultTemplates() {
		assert.NoError(t, checkTemplate(tmpl), tmpl.ID)
		assert.Equal(t, models.NormalizeSpacing(tmpl.Content), tmpl.Content, tmpl.ID)
	}
}

func TestTemplateLifecycle(t *testing.T) {
	svc := newTestService(t, "")

	tmpl := &models.Template{ID: "brief", Name: "Brief", Category: "contact", Content: "Met (---c---)."}
	require.NoError(t, svc.CreateTemplate(tmpl))
	assert.True(t, testClock.Equal(tmpl.CreatedAt))

	err := svc.CreateTemplate(&models.Template{ID: "brief", Content: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists))

	clone, err := svc.CloneTemplate("brief", "")
	require.NoError(t, err)
	assert.Equal(t, "id-1", clone.ID)
	assert.True(t, clone.Custom)
	assert.Equal(t, "Brief (custom)", clone.Name)

	updated, err := svc.AppendToTemplate("brief", "Next: (---fu---).")
	require.NoError(t, err)
	assert.Equal(t, "Met (---c---). Next: (---fu---).", updated.Content)

	results, err := svc.SearchTemplates("brief")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	require.NoError(t, svc.DeleteTemplate("brief"))
	_, err = svc.GetTemplate("brief")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestCreateTemplateRejectsBadMarkers(t *testing.T) {
	svc := newTestService(t, "")

	err := svc.CreateTemplate(&models.Template{ID: "bad", Content: "Met (---zz---)."})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	err = svc.CreateTemplate(&models.Template{ID: "bad2", Content: "(---p1b@1@---) met (---c---)."})
	assert.Error(t, err)
}

func TestNormalizeTemplate(t *testing.T) {
	svc := newTestService(t, "")
	require.NoError(t, svc.CreateTemplate(&models.Template{ID: "messy", Content: "One.   Two..  "}))

	changed, err := svc.NormalizeTemplate("messy")
	require.NoError(t, err)
	assert.True(t, changed)

	tmpl, err := svc.GetTemplate("messy")
	require.NoError(t, err)
	assert.Equal(t, "One. Two.", tmpl.Content)

	changed, err = svc.NormalizeTemplate("messy")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestAddPersonValidation(t *testing.T) {
	svc := newTestService(t, "")
	assert.Error(t, svc.AddPerson(models.Person{Name: "No id", Role: blank.RoleClient}))
	assert.Error(t, svc.AddPerson(models.Person{ID: "x", Role: blank.RoleClient}))
	assert.Error(t, svc.AddPerson(models.Person{ID: "x", Name: "X", Role: "friend"}))

	require.NoError(t, svc.AddPerson(models.Person{ID: "x", Name: "X", Role: blank.RoleClient}))
	require.NoError(t, svc.AddPerson(models.Person{ID: "x", Name: "Y", Role: blank.RoleClient}))
	people, err := svc.People()
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Y", people[0].Name)
}

func TestNewServiceMergesLibraryVocabulary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocabulary.yaml"), []byte("l:\n  - the barn\n"), 0644))

	svc, err := NewService(Options{LibraryDir: dir})
	require.NoError(t, err)
	assert.Contains(t, svc.Vocabulary().Values(blank.KindLocation), "the barn")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocabulary.yaml"), []byte("zz:\n  - nope\n"), 0644))
	_, err = NewService(Options{LibraryDir: dir})
	assert.Error(t, err)
}
