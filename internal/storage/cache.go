package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
)

const (
	cacheDirName = ".wrap-notes"

	kindTemplate = "template"
	kindNote     = "note"
)

// DocumentMetadata is the cached listing data of one template or note file
type DocumentMetadata struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
	Preview  string `json:"preview"`

	// templates
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Custom      bool   `json:"custom,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`

	// notes
	TemplateID string `json:"template,omitempty"`
	UserID     string `json:"user,omitempty"`
	ClientID   string `json:"client,omitempty"`
	Filled     int    `json:"filled,omitempty"`
	Total      int    `json:"total,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ModTime   time.Time `json:"mod_time"`
	FileHash  string    `json:"file_hash"`
}

// MetadataCache handles caching of document metadata
type MetadataCache struct {
	rootPath  string
	cacheDir  string
	cacheFile string
	metadata  map[string]*DocumentMetadata
	mu        sync.RWMutex // Protects metadata map from concurrent access
}

// NewMetadataCache creates a new metadata cache
func NewMetadataCache(baseDir string) *MetadataCache {
	cacheDir := filepath.Join(baseDir, cacheDirName, "cache")
	return &MetadataCache{
		rootPath:  baseDir,
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, "metadata.json"),
		metadata:  make(map[string]*DocumentMetadata),
	}
}

// Load loads the metadata cache from disk
func (c *MetadataCache) Load() error {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if _, err := os.Stat(c.cacheFile); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(c.cacheFile)
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	c.mu.Lock()
	if err := json.Unmarshal(data, &c.metadata); err != nil {
		// If cache is corrupted, start fresh
		c.metadata = make(map[string]*DocumentMetadata)
	}
	c.mu.Unlock()

	return nil
}

// Save saves the metadata cache to disk
func (c *MetadataCache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Get retrieves metadata for a file, checking if cache is valid
func (c *MetadataCache) Get(relPath string, fileInfo os.FileInfo) (*DocumentMetadata, bool) {
	c.mu.RLock()
	cached, exists := c.metadata[relPath]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if !fileInfo.ModTime().Equal(cached.ModTime) {
		return nil, false
	}

	return cached, true
}

// SetTemplate stores a template's metadata
func (c *MetadataCache) SetTemplate(relPath string, fileInfo os.FileInfo, t *models.Template) {
	c.set(relPath, &DocumentMetadata{
		Kind:        kindTemplate,
		ID:          t.ID,
		FilePath:    t.FilePath,
		Preview:     t.Preview(80),
		Name:        t.Name,
		Category:    t.Category,
		Custom:      t.Custom,
		Description: t.Description,
		Content:     t.Content,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		ModTime:     fileInfo.ModTime(),
	})
}

// SetNote stores a note's metadata
func (c *MetadataCache) SetNote(relPath string, fileInfo os.FileInfo, n *models.Note) {
	summary := n.Summary()
	c.set(relPath, &DocumentMetadata{
		Kind:       kindNote,
		ID:         n.ID,
		FilePath:   n.FilePath,
		Preview:    summary.Preview,
		TemplateID: n.TemplateID,
		UserID:     n.UserID,
		ClientID:   n.ClientID,
		Filled:     summary.Filled,
		Total:      summary.Total,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		ModTime:    fileInfo.ModTime(),
	})
}

func (c *MetadataCache) set(relPath string, meta *DocumentMetadata) {
	// file hash for additional validation
	if data, err := os.ReadFile(filepath.Join(c.rootPath, relPath)); err == nil {
		meta.FileHash = calculateHash(data)
	}

	c.mu.Lock()
	c.metadata[relPath] = meta
	c.mu.Unlock()
}

// ToTemplate converts cached metadata back to a Template
func (m *DocumentMetadata) ToTemplate() *models.Template {
	return &models.Template{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Custom:      m.Custom,
		Description: m.Description,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		FilePath:    m.FilePath,
	}
}

// ToNoteSummary converts cached metadata back to a note summary
func (m *DocumentMetadata) ToNoteSummary() models.NoteSummary {
	return models.NoteSummary{
		ID:         m.ID,
		TemplateID: m.TemplateID,
		UserID:     m.UserID,
		ClientID:   m.ClientID,
		Filled:     m.Filled,
		Total:      m.Total,
		Preview:    m.Preview,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		FilePath:   m.FilePath,
	}
}

// Cleanup removes entries under dir whose files no longer exist and reports whether
// anything was removed
func (c *MetadataCache) Cleanup(dir string, existingFiles map[string]bool) bool {
	prefix := dir + string(filepath.Separator)
	removed := false
	c.mu.Lock()
	for relPath := range c.metadata {
		if strings.HasPrefix(relPath, prefix) && !existingFiles[relPath] {
			delete(c.metadata, relPath)
			removed = true
		}
	}
	c.mu.Unlock()
	return removed
}
