package service

import (
	"fmt"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/validation"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

// loadTemplates loads all templates into memory for fast access
func (s *Service) loadTemplates() error {
	templates, err := s.storage.ListTemplates()
	if err != nil {
		return err
	}
	s.templates = templates
	return nil
}

// ListTemplates returns all templates sorted by id
func (s *Service) ListTemplates() ([]*models.Template, error) {
	if s.templates == nil {
		if err := s.loadTemplates(); err != nil {
			return nil, err
		}
	}
	return s.templates, nil
}

// SearchTemplates searches templates by query string
func (s *Service) SearchTemplates(query string) ([]*models.Template, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return templates, nil
	}

	// Create searchable strings for each template
	var searchStrings []string
	for _, t := range templates {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s %s %s",
			t.Name,
			t.Category,
			t.ID,
			t.Preview(80)))
	}

	matches := fuzzy.Find(query, searchStrings)

	var results []*models.Template
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results, nil
}

// GetTemplate returns a template by ID
func (s *Service) GetTemplate(id string) (*models.Template, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	for _, t := range templates {
		if t.ID == id {
			// listings from the cache carry content, but an older cache may not
			if t.Content == "" && t.FilePath != "" {
				return s.storage.LoadTemplate(t.FilePath)
			}
			return t, nil
		}
	}

	return nil, apperrors.NotFoundError(fmt.Sprintf("template %q", id))
}

// CreateTemplate validates and stores a new template
func (s *Service) CreateTemplate(t *models.Template) error {
	if _, err := s.GetTemplate(t.ID); err == nil {
		return apperrors.AlreadyExistsError(fmt.Sprintf("template %q", t.ID))
	}
	if err := checkTemplate(t); err != nil {
		return err
	}

	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.FilePath = ""
	if err := s.storage.SaveTemplate(t); err != nil {
		return err
	}

	s.logger.Info("template created", zap.String("id", t.ID), zap.Int("blanks", blank.Count(t.Content)))
	return s.loadTemplates()
}

// UpdateTemplate stores changes to an existing template, keeping its creation time
func (s *Service) UpdateTemplate(t *models.Template) error {
	existing, err := s.GetTemplate(t.ID)
	if err != nil {
		return err
	}
	if err := checkTemplate(t); err != nil {
		return err
	}

	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()
	if t.FilePath == "" {
		t.FilePath = existing.FilePath
	}
	if err := s.storage.SaveTemplate(t); err != nil {
		return err
	}

	s.logger.Info("template updated", zap.String("id", t.ID))
	return s.loadTemplates()
}

// CloneTemplate copies a template into a custom one. An empty newID gets a generated id.
func (s *Service) CloneTemplate(id, newID string) (*models.Template, error) {
	source, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	if newID == "" {
		newID = s.newID()
	}

	clone := source.Clone(newID)
	if err := s.CreateTemplate(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// NormalizeTemplate rewrites a template's sentence spacing and reports whether it changed
func (s *Service) NormalizeTemplate(id string) (bool, error) {
	t, err := s.GetTemplate(id)
	if err != nil {
		return false, err
	}
	before := t.Content
	t.NormalizeSpacing()
	if t.Content == before {
		return false, nil
	}
	if err := s.UpdateTemplate(t); err != nil {
		return false, err
	}
	return true, nil
}

// AppendToTemplate adds prose or a marker to the end of a template
func (s *Service) AppendToTemplate(id, text string) (*models.Template, error) {
	t, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ValidationError("nothing to append")
	}
	updated := *t
	updated.AppendText(text)
	if err := s.UpdateTemplate(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTemplate deletes a template by ID
func (s *Service) DeleteTemplate(id string) error {
	t, err := s.GetTemplate(id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTemplate(t); err != nil {
		return err
	}

	s.logger.Info("template deleted", zap.String("id", id))
	return s.loadTemplates()
}

func checkTemplate(t *models.Template) error {
	result := validation.ValidateTemplate(t)
	if appErr := result.ToAppError(); appErr != nil {
		return appErr.WithContext("template", t.ID)
	}
	return nil
}
