package render

import (
	"fmt"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
)

// Class is the semantic tag of a rendered span. Painters map classes to styles.
type Class int

const (
	Content Class = iota
	HighlightedContent
	UnhighlightedContent
	Blank
	HighlightedBlank
	UnhighlightedBlank
	UnfocusedBlank
)

var classNames = [...]string{
	Content:              "content",
	HighlightedContent:   "highlighted-content",
	UnhighlightedContent: "unhighlighted-content",
	Blank:                "blank",
	HighlightedBlank:     "highlighted-blank",
	UnhighlightedBlank:   "unhighlighted-blank",
	UnfocusedBlank:       "unfocused-blank",
}

// Classes lists every class in declaration order.
func Classes() []Class {
	return []Class{Content, HighlightedContent, UnhighlightedContent, Blank, HighlightedBlank, UnhighlightedBlank, UnfocusedBlank}
}

// IsBlank reports whether spans of this class hold a blank's display text.
func (c Class) IsBlank() bool {
	switch c {
	case Blank, HighlightedBlank, UnhighlightedBlank, UnfocusedBlank:
		return true
	}
	return false
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// MarshalText encodes the class by name
func (c Class) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(classNames) {
		return nil, fmt.Errorf("unknown span class %d", int(c))
	}
	return []byte(classNames[c]), nil
}

// UnmarshalText decodes a class name
func (c *Class) UnmarshalText(text []byte) error {
	for i, name := range classNames {
		if name == string(text) {
			*c = Class(i)
			return nil
		}
	}
	return fmt.Errorf("unknown span class %q", string(text))
}

// Span tags the half-open rune range [Start, End) of rendered text.
type Span struct {
	Class Class `json:"class"`
	Start int   `json:"start"`
	End   int   `json:"end"`
}

// Len returns the span's length in runes
func (s Span) Len() int {
	return s.End - s.Start
}

// Focus selects what a render emphasizes. Blank and Section are 1-based ordinals; zero
// means unset. At most one of them may be set.
type Focus struct {
	Blank   int `json:"blank,omitempty"`
	Section int `json:"section,omitempty"`
}

// NoFocus renders everything with the plain classes.
func NoFocus() Focus {
	return Focus{}
}

// OnBlank highlights one blank.
func OnBlank(ordinal int) Focus {
	return Focus{Blank: ordinal}
}

// OnSection highlights one content section.
func OnSection(ordinal int) Focus {
	return Focus{Section: ordinal}
}

// Validate rejects negative ordinals and requests that focus a blank and a section together.
func (f Focus) Validate() error {
	if f.Blank < 0 || f.Section < 0 {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidOrdinal, "focus ordinals must be positive").
			WithContext("blank", f.Blank).
			WithContext("section", f.Section)
	}
	if f.Blank > 0 && f.Section > 0 {
		return apperrors.FocusConflictError(f.Blank, f.Section)
	}
	return nil
}

// OnBlanks reports whether blank focus is active
func (f Focus) OnBlanks() bool {
	return f.Blank > 0
}

// OnSections reports whether content focus is active
func (f Focus) OnSections() bool {
	return f.Section > 0
}
