package service

import (
	"fmt"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/storage"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/validation"
	"go.uber.org/zap"
)

// StartNote creates and saves a note from a template. Blanks that can be worked out
// without asking (today's date, the user, the client and their pronouns) are filled.
func (s *Service) StartNote(templateID, clientID string) (*models.Note, error) {
	tmpl, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if clientID != "" {
		people, err := s.People()
		if err != nil {
			return nil, err
		}
		if _, ok := people.Lookup(clientID); !ok {
			return nil, apperrors.NotFoundError(fmt.Sprintf("client %q", clientID))
		}
	}

	note := models.NewNote(s.newID(), tmpl, s.userID, clientID)
	filled := s.Prefill(note)
	if err := s.SaveNote(note); err != nil {
		return nil, err
	}

	s.logger.Info("note started",
		zap.String("id", note.ID),
		zap.String("template", templateID),
		zap.Int("prefilled", filled))
	return note, nil
}

// GetNote loads a note by ID
func (s *Service) GetNote(id string) (*models.Note, error) {
	path := storage.NotePath(id)
	if !s.storage.Exists(path) {
		return nil, apperrors.NotFoundError(fmt.Sprintf("note %q", id))
	}
	return s.storage.LoadNote(path)
}

// ListNotes returns summaries of all notes, newest first
func (s *Service) ListNotes() ([]models.NoteSummary, error) {
	return s.storage.ListNotes()
}

// SaveNote validates and stores a note
func (s *Service) SaveNote(note *models.Note) error {
	result := validation.ValidateNote(note)
	if appErr := result.ToAppError(); appErr != nil {
		return appErr.WithContext("note", note.ID)
	}
	for _, w := range result.Warnings {
		s.logger.Debug("note warning",
			zap.String("id", note.ID),
			zap.String("field", w.Field),
			zap.String("message", w.Message))
	}

	now := s.now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	return s.storage.SaveNote(note)
}

// EditNote loads a note, applies edit and saves the result. Nothing is saved when edit
// fails.
func (s *Service) EditNote(id string, edit func(*models.Note) error) (*models.Note, error) {
	note, err := s.GetNote(id)
	if err != nil {
		return nil, err
	}
	if err := edit(note); err != nil {
		return nil, err
	}
	if err := s.SaveNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

// InsertBlank adds a blank to a note, at the end when index is negative and at the
// byte index otherwise. It returns the new blank's ordinal.
func (s *Service) InsertBlank(note *models.Note, b blank.Blank, index int) (int, error) {
	var (
		ordinal int
		err     error
	)
	if index < 0 {
		ordinal, err = note.InsertBlank(b)
	} else {
		ordinal, err = note.InsertBlankAt(index, b)
	}
	if err != nil {
		return 0, err
	}
	s.logger.Debug("blank inserted",
		zap.String("note", note.ID),
		zap.String("kind", b.Abbreviation()),
		zap.Int("ordinal", ordinal))
	return ordinal, nil
}

// DeleteNote deletes a note by ID
func (s *Service) DeleteNote(id string) error {
	note, err := s.GetNote(id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteNote(note); err != nil {
		return err
	}
	s.logger.Info("note deleted", zap.String("id", id))
	return nil
}

// Render renders a note's whole content in one pass
func (s *Service) Render(note *models.Note, focus render.Focus) (*render.Result, error) {
	return s.engine.Render(render.Input{
		Content: note.Content,
		Values:  note.Blanks,
		Focus:   focus,
	})
}

// Layout renders a note sentence by sentence and wraps it at the configured width
func (s *Service) Layout(note *models.Note, focus render.Focus) ([]render.DisplayLine, error) {
	return s.engine.Layout(render.Input{
		Content: note.Content,
		Values:  note.Blanks,
		Focus:   focus,
	})
}

// Export returns the note as wrapped plain text
func (s *Service) Export(note *models.Note) (string, error) {
	lines, err := s.Layout(note, render.NoFocus())
	if err != nil {
		return "", err
	}
	return render.PlainText(lines), nil
}
