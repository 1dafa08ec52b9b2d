package models

import (
	"strings"
	"time"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
)

// Template is an authored document whose content mixes prose with blank markers.
type Template struct {
	// Frontmatter fields
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Category    string    `yaml:"category"`
	Custom      bool      `yaml:"custom"`
	Description string    `yaml:"description,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`

	// Content fields
	Content  string `yaml:"-"` // Template text with markers
	FilePath string `yaml:"-"` // Path to the file
}

// Title returns the display name of the template
func (t *Template) Title() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Preview returns a short, marker-free summary of the content
func (t *Template) Preview(max int) string {
	return Preview(t.Content, max)
}

// NormalizeSpacing rewrites the content so sentences are separated by exactly ". "
func (t *Template) NormalizeSpacing() {
	t.Content = NormalizeSpacing(t.Content)
}

// SectionIndices returns the numbered content sections
func (t *Template) SectionIndices() []Range {
	return SectionIndices(t.Content)
}

// OrderedBlanks decodes every marker in source order
func (t *Template) OrderedBlanks() ([]blank.Blank, error) {
	return blank.Decode(t.Content)
}

// AppendText adds prose to the end of the template
func (t *Template) AppendText(text string) {
	t.Content = joinText(t.Content, text)
}

// AppendBlank adds a marker to the end of the template and returns its ordinal
func (t *Template) AppendBlank(b blank.Blank) int {
	t.Content = joinText(t.Content, b.Marker())
	return blank.Count(t.Content)
}

// Clone returns a custom copy of the template under a new id
func (t *Template) Clone(id string) *Template {
	clone := *t
	clone.ID = id
	clone.Custom = true
	clone.FilePath = ""
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	if !strings.HasSuffix(clone.Name, "(custom)") {
		clone.Name = strings.TrimSpace(clone.Name + " (custom)")
	}
	return &clone
}

// joinText appends text with a single separating space when needed.
func joinText(content, text string) string {
	if content == "" || text == "" {
		return content + text
	}
	if endsWithSpace(content) || strings.HasPrefix(text, " ") {
		return content + text
	}
	return content + " " + text
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
