package storage

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// LibraryDirName is the default library directory under the user's home.
	LibraryDirName = ".wrap-notes"

	templatesDir   = "templates"
	notesDir       = "notes"
	logsDir        = "logs"
	peopleFile     = "people.yaml"
	vocabularyFile = "vocabulary.yaml"
)

// Storage handles all file system operations for templates, notes and people
type Storage struct {
	rootPath string
	cache    *MetadataCache
	logger   *zap.Logger
}

// DefaultRoot returns ~/.wrap-notes
func DefaultRoot() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, LibraryDirName), nil
}

// NewStorage creates a new storage instance
func NewStorage(rootPath string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rootPath == "" {
		root, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		rootPath = root
	}

	cache := NewMetadataCache(rootPath)
	if err := cache.Load(); err != nil {
		// cache is optional
		logger.Warn("failed to load metadata cache", zap.Error(err))
	}

	return &Storage{
		rootPath: rootPath,
		cache:    cache,
		logger:   logger,
	}, nil
}

// InitLibrary creates the directory structure for a note library
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, templatesDir),
		filepath.Join(s.rootPath, notesDir),
		filepath.Join(s.rootPath, logsDir),
		filepath.Join(s.rootPath, cacheDirName, "cache"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.StorageError(fmt.Sprintf("create directory %s", dir), err)
		}
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// TemplatePath returns the relative path a template with id is stored at
func TemplatePath(id string) string {
	return filepath.Join(templatesDir, id+".md")
}

// NotePath returns the relative path a note with id is stored at
func NotePath(id string) string {
	return filepath.Join(notesDir, id+".md")
}

// Exists reports whether a relative path exists in the library
func (s *Storage) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.rootPath, path))
	return err == nil
}

// LoadTemplate loads a template from a markdown file with YAML frontmatter
func (s *Storage) LoadTemplate(path string) (*models.Template, error) {
	data, err := s.readFile(path)
	if err != nil {
		return nil, err
	}

	var template models.Template
	content, err := parseFrontmatter(data, &template)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeFileCorrupted, "failed to parse template").
			WithContext("path", path)
	}
	template.Content = content
	template.FilePath = path
	return &template, nil
}

// SaveTemplate saves a template to its file
func (s *Storage) SaveTemplate(template *models.Template) error {
	if template.FilePath == "" {
		template.FilePath = TemplatePath(template.ID)
	}
	data, err := serializeDocument(template, template.Content)
	if err != nil {
		return apperrors.StorageError("serialize template", err)
	}
	return s.writeFile(template.FilePath, data)
}

// DeleteTemplate deletes a template file
func (s *Storage) DeleteTemplate(template *models.Template) error {
	return s.removeFile(template.FilePath)
}

// ListTemplates returns all templates in the library, sorted by id
func (s *Storage) ListTemplates() ([]*models.Template, error) {
	var templates []*models.Template
	err := s.walkDocuments(templatesDir, func(relPath string, info os.FileInfo) (bool, error) {
		if cached, valid := s.cache.Get(relPath, info); valid && cached.Kind == kindTemplate {
			templates = append(templates, cached.ToTemplate())
			return false, nil
		}
		template, err := s.LoadTemplate(relPath)
		if err != nil {
			return false, err
		}
		s.cache.SetTemplate(relPath, info, template)
		templates = append(templates, template)
		return true, nil
	})

	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, err
}

// LoadNote loads a note from a markdown file with YAML frontmatter
func (s *Storage) LoadNote(path string) (*models.Note, error) {
	data, err := s.readFile(path)
	if err != nil {
		return nil, err
	}

	var note models.Note
	content, err := parseFrontmatter(data, &note)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeFileCorrupted, "failed to parse note").
			WithContext("path", path)
	}
	if note.Blanks == nil {
		note.Blanks = make(map[int]models.BlankValue)
	}
	note.Content = content
	note.FilePath = path
	return &note, nil
}

// SaveNote saves a note to its file
func (s *Storage) SaveNote(note *models.Note) error {
	if note.FilePath == "" {
		note.FilePath = NotePath(note.ID)
	}
	data, err := serializeDocument(note, note.Content)
	if err != nil {
		return apperrors.StorageError("serialize note", err)
	}
	return s.writeFile(note.FilePath, data)
}

// DeleteNote deletes a note file
func (s *Storage) DeleteNote(note *models.Note) error {
	return s.removeFile(note.FilePath)
}

// ListNotes returns summaries of every note, most recently updated first
func (s *Storage) ListNotes() ([]models.NoteSummary, error) {
	var notes []models.NoteSummary
	err := s.walkDocuments(notesDir, func(relPath string, info os.FileInfo) (bool, error) {
		if cached, valid := s.cache.Get(relPath, info); valid && cached.Kind == kindNote {
			notes = append(notes, cached.ToNoteSummary())
			return false, nil
		}
		note, err := s.LoadNote(relPath)
		if err != nil {
			return false, err
		}
		s.cache.SetNote(relPath, info, note)
		notes = append(notes, note.Summary())
		return true, nil
	})

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, err
}

// walkDocuments visits every .md file under dir. visit reports whether it changed the
// cache; files that fail to load are skipped with a warning.
func (s *Storage) walkDocuments(dir string, visit func(relPath string, info os.FileInfo) (bool, error)) error {
	root := filepath.Join(s.rootPath, dir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	existingFiles := make(map[string]bool)
	cacheModified := false

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(s.rootPath, path)
		existingFiles[relPath] = true

		modified, err := visit(relPath, info)
		if err != nil {
			s.logger.Warn("skipping unreadable document", zap.String("path", relPath), zap.Error(err))
			return nil
		}
		cacheModified = cacheModified || modified
		return nil
	})

	if s.cache.Cleanup(dir, existingFiles) {
		cacheModified = true
	}
	if cacheModified {
		if err := s.cache.Save(); err != nil {
			s.logger.Warn("failed to save metadata cache", zap.Error(err))
		}
	}

	if err != nil {
		return apperrors.StorageError(fmt.Sprintf("walk %s", dir), err)
	}
	return nil
}

type peopleDocument struct {
	People models.People `yaml:"people"`
}

// LoadPeople reads the people directory. A missing file is an empty directory.
func (s *Storage) LoadPeople() (models.People, error) {
	if !s.Exists(peopleFile) {
		return models.People{}, nil
	}
	data, err := s.readFile(peopleFile)
	if err != nil {
		return nil, err
	}
	var doc peopleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeFileCorrupted, "failed to parse people directory")
	}
	return doc.People, nil
}

// SavePeople writes the people directory
func (s *Storage) SavePeople(people models.People) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(peopleDocument{People: people}); err != nil {
		return apperrors.StorageError("serialize people", err)
	}
	return s.writeFile(peopleFile, buf.Bytes())
}

// LoadVocabulary returns the library's vocabulary additions, if the file exists
func (s *Storage) LoadVocabulary() ([]byte, bool, error) {
	if !s.Exists(vocabularyFile) {
		return nil, false, nil
	}
	data, err := s.readFile(vocabularyFile)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Helper functions

func (s *Storage) readFile(path string) ([]byte, error) {
	file, err := os.Open(filepath.Join(s.rootPath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeFileNotFound, fmt.Sprintf("%s does not exist", path)).
				WithContext("path", path)
		}
		return nil, apperrors.StorageError("open "+path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.StorageError("read "+path, err)
	}
	return data, nil
}

func (s *Storage) writeFile(path string, data []byte) error {
	fullPath := filepath.Join(s.rootPath, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.StorageError("create directory", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return apperrors.StorageError("write "+path, err)
	}
	return nil
}

func (s *Storage) removeFile(path string) error {
	fullPath := filepath.Join(s.rootPath, path)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return apperrors.NewAppError(apperrors.ErrCodeFileNotFound, fmt.Sprintf("%s does not exist", path))
	}
	if err := os.Remove(fullPath); err != nil {
		return apperrors.StorageError("delete "+path, err)
	}
	return nil
}

// parseFrontmatter decodes the YAML between the leading "---" lines into meta and
// returns the body. The blank line written after the closing delimiter is dropped;
// everything else in the body is kept as is.
func parseFrontmatter(data []byte, meta interface{}) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() || scanner.Text() != "---" {
		return "", fmt.Errorf("missing frontmatter delimiter")
	}

	var frontmatterLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			closed = true
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if !closed {
		return "", fmt.Errorf("unterminated frontmatter")
	}

	if err := yaml.Unmarshal([]byte(strings.Join(frontmatterLines, "\n")), meta); err != nil {
		return "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if len(contentLines) > 0 && contentLines[0] == "" {
		contentLines = contentLines[1:]
	}
	return strings.Join(contentLines, "\n"), nil
}

// serializeDocument writes meta as YAML frontmatter followed by a blank line and body
func serializeDocument(meta interface{}, body string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(meta); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func calculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
