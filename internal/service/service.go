package service

import (
	"strings"
	"time"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/storage"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/vocab"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateFormat is how today's date is written into a note.
const DateFormat = "January 2, 2006"

// Options configures a Service.
type Options struct {
	LibraryDir string
	WrapWidth  int
	// UserID is the staff member filling notes.
	UserID string
	Logger *zap.Logger
}

// Service provides business logic for templates and notes
type Service struct {
	storage    *storage.Storage
	engine     *render.Engine
	vocabulary *vocab.Vocabulary
	templates  []*models.Template // Cached templates for fast access
	people     models.People
	peopleOK   bool
	userID     string
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new service instance
func NewService(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.NewStorage(opts.LibraryDir, logger.Named("storage"))
	if err != nil {
		return nil, apperrors.StorageError("open library", err)
	}

	vocabulary, err := vocab.Default()
	if err != nil {
		return nil, err
	}
	// a library may extend the built-in lists
	data, ok, err := store.LoadVocabulary()
	if err != nil {
		return nil, err
	}
	if ok {
		extra, err := vocab.Parse(data)
		if err != nil {
			return nil, err
		}
		vocabulary.Merge(extra)
	}

	return &Service{
		storage:    store,
		engine:     render.NewEngine(opts.WrapWidth),
		vocabulary: vocabulary,
		userID:     opts.UserID,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}, nil
}

// InitLibrary creates the library layout and seeds the default templates
func (s *Service) InitLibrary() error {
	if err := s.storage.InitLibrary(); err != nil {
		return err
	}

	existing, err := s.storage.ListTemplates()
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.ID] = true
	}

	seeded := 0
	for _, t := range DefaultTemplates() {
		if have[t.ID] {
			continue
		}
		now := s.now()
		t.CreatedAt, t.UpdatedAt = now, now
		if err := s.storage.SaveTemplate(t); err != nil {
			return err
		}
		seeded++
	}
	s.templates = nil
	s.logger.Info("library initialized",
		zap.String("dir", s.storage.GetBaseDir()),
		zap.Int("seeded_templates", seeded))
	return nil
}

// BaseDir returns the library directory
func (s *Service) BaseDir() string {
	return s.storage.GetBaseDir()
}

// Engine returns the render engine configured with the wrap width
func (s *Service) Engine() *render.Engine {
	return s.engine
}

// Vocabulary returns the merged vocabulary
func (s *Service) Vocabulary() *vocab.Vocabulary {
	return s.vocabulary
}

// UserID returns the staff member notes are filled for
func (s *Service) UserID() string {
	return s.userID
}

// People returns the people directory, loading it on first use
func (s *Service) People() (models.People, error) {
	if s.peopleOK {
		return s.people, nil
	}
	people, err := s.storage.LoadPeople()
	if err != nil {
		return nil, err
	}
	s.people = people
	s.peopleOK = true
	return people, nil
}

// AddPerson adds or replaces a person in the directory
func (s *Service) AddPerson(person models.Person) error {
	person.ID = strings.TrimSpace(person.ID)
	if person.ID == "" {
		return apperrors.ValidationError("person id is required")
	}
	if strings.TrimSpace(person.Name) == "" {
		return apperrors.ValidationError("person name is required")
	}
	switch person.Role {
	case blank.RoleUser, blank.RoleClient, blank.RoleCollateral, blank.RoleGuardian:
	default:
		return apperrors.ValidationError("role must be user, client, collateral or guardian")
	}

	people, err := s.People()
	if err != nil {
		return err
	}
	updated := make(models.People, 0, len(people)+1)
	replaced := false
	for _, p := range people {
		if p.ID == person.ID {
			updated = append(updated, person)
			replaced = true
			continue
		}
		updated = append(updated, p)
	}
	if !replaced {
		updated = append(updated, person)
	}

	if err := s.storage.SavePeople(updated); err != nil {
		return err
	}
	s.people = updated
	s.logger.Debug("person saved", zap.String("id", person.ID), zap.Bool("replaced", replaced))
	return nil
}
