package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
)

// BlankValue is the resolved value of one blank in a note.
type BlankValue struct {
	Blank     blank.Blank `yaml:"blank" json:"blank"`
	Display   string      `yaml:"display" json:"display"`
	EntityIDs []string    `yaml:"entity_ids,omitempty" json:"entity_ids,omitempty"`
	// Pending marks free text that has not been confirmed yet; it renders as unfilled.
	Pending bool `yaml:"pending,omitempty" json:"pending,omitempty"`
}

// Note is a template's content being filled in. Blanks is keyed by ordinal: the 1-based
// position of the marker among all markers in Content. Every key must name a marker
// that currently exists, so edits that add or remove markers renumber the map.
type Note struct {
	// Frontmatter fields
	ID         string             `yaml:"id"`
	TemplateID string             `yaml:"template,omitempty"`
	UserID     string             `yaml:"user,omitempty"`
	ClientID   string             `yaml:"client,omitempty"`
	Blanks     map[int]BlankValue `yaml:"blanks,omitempty"`
	CreatedAt  time.Time          `yaml:"created_at"`
	UpdatedAt  time.Time          `yaml:"updated_at"`

	// Content fields
	Content  string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// OrderedBlank is one blank of a note in document order.
type OrderedBlank struct {
	Ordinal int         `json:"ordinal"`
	Blank   blank.Blank `json:"blank"`
	Display string      `json:"display"`
	Filled  bool        `json:"filled"`
}

// NewNote starts a note from a template.
func NewNote(id string, tmpl *Template, userID, clientID string) *Note {
	n := &Note{
		ID:       id,
		UserID:   userID,
		ClientID: clientID,
		Blanks:   make(map[int]BlankValue),
	}
	if tmpl != nil {
		n.TemplateID = tmpl.ID
		n.Content = tmpl.Content
	}
	return n
}

// Title returns a short label for listings
func (n *Note) Title() string {
	if preview := Preview(n.Content, 48); preview != "" {
		return preview
	}
	return n.ID
}

// NormalizeSpacing rewrites sentence gaps; markers and ordinals are unaffected
func (n *Note) NormalizeSpacing() {
	n.Content = NormalizeSpacing(n.Content)
}

// SectionIndices returns the numbered content sections
func (n *Note) SectionIndices() []Range {
	return SectionIndices(n.Content)
}

// OrderedBlanks decodes every marker, using resolved values where they exist.
func (n *Note) OrderedBlanks() ([]OrderedBlank, error) {
	blanks, err := blank.Decode(n.Content)
	if err != nil {
		return nil, err
	}
	ordered := make([]OrderedBlank, 0, len(blanks))
	for i, b := range blanks {
		ob := OrderedBlank{Ordinal: i + 1, Blank: b, Display: b.DefaultDisplay()}
		if v, ok := n.Blanks[i+1]; ok && !v.Pending && v.Display != "" {
			ob.Display = v.Display
			ob.Filled = true
		}
		ordered = append(ordered, ob)
	}
	return ordered, nil
}

// BlankAt decodes the marker at ordinal.
func (n *Note) BlankAt(ordinal int) (blank.Blank, error) {
	matches := blank.FindAll(n.Content)
	if ordinal < 1 || ordinal > len(matches) {
		return blank.Blank{}, apperrors.BlankNotFoundError(ordinal)
	}
	return blank.ParseMarker(matches[ordinal-1].Text(n.Content))
}

// Progress reports how many blanks hold a confirmed value.
func (n *Note) Progress() (filled, total int) {
	total = blank.Count(n.Content)
	for ordinal := 1; ordinal <= total; ordinal++ {
		if v, ok := n.Blanks[ordinal]; ok && !v.Pending {
			filled++
		}
	}
	return filled, total
}

// IsComplete reports whether every blank is filled.
func (n *Note) IsComplete() bool {
	filled, total := n.Progress()
	return filled == total
}

// AppendText adds prose to the end of the note. Markers in text become new blanks.
func (n *Note) AppendText(text string) {
	n.Content = joinText(n.Content, text)
}

// InsertBlank appends a marker, preceded by a single space when the content does not
// already end in whitespace, and returns its ordinal.
func (n *Note) InsertBlank(b blank.Blank) (int, error) {
	ordinal := blank.Count(n.Content) + 1
	if err := checkBackReference(b, ordinal); err != nil {
		return 0, err
	}
	if n.Content != "" && !endsWithSpace(n.Content) {
		n.Content += " "
	}
	n.Content += b.Marker()
	return ordinal, nil
}

// InsertBlankAt splices a marker in at byte index. Blanks after it move up one ordinal,
// and so does every back-reference that pointed at them.
func (n *Note) InsertBlankAt(index int, b blank.Blank) (int, error) {
	index = n.snapIndex(index)
	position := blank.CountBefore(n.Content, index) + 1
	if err := checkBackReference(b, position); err != nil {
		return 0, err
	}

	head, err := reindexMarkers(n.Content[:index], 0, position)
	if err != nil {
		return 0, err
	}
	tail, err := reindexMarkers(n.Content[index:], position-1, position)
	if err != nil {
		return 0, err
	}
	n.Content = head + b.Marker() + tail

	shifted := make(map[int]BlankValue, len(n.Blanks))
	for ordinal, v := range n.Blanks {
		if ordinal >= position {
			ordinal++
		}
		shifted[ordinal] = v
	}
	n.Blanks = shifted
	n.bumpValueRefs(position)
	return position, nil
}

// ReindexAfterInsert increments every back-reference ordinal at or above position, in
// the content markers and in the resolved values.
func (n *Note) ReindexAfterInsert(position int) error {
	content, err := reindexMarkers(n.Content, 0, position)
	if err != nil {
		return err
	}
	n.Content = content
	n.bumpValueRefs(position)
	return nil
}

func (n *Note) bumpValueRefs(position int) {
	for ordinal, v := range n.Blanks {
		if ref, ok := v.Blank.Ordinal(); ok && v.Blank.Kind.IsBackReference() && ref >= position {
			v.Blank = v.Blank.WithOrdinal(ref + 1)
			n.Blanks[ordinal] = v
		}
	}
}

// reindexMarkers bumps back-reference ordinals >= position inside text. offset is the
// number of markers that precede text in the full document.
func reindexMarkers(text string, offset, position int) (string, error) {
	matches := blank.FindAll(text)
	if len(matches) == 0 {
		return text, nil
	}
	var b strings.Builder
	pos := 0
	for i, m := range matches {
		bl, err := blank.ParseMarker(m.Text(text))
		if err != nil {
			return "", apperrors.GetAppError(err).WithContext("ordinal", offset+i+1)
		}
		b.WriteString(text[pos:m.Start])
		if ref, ok := bl.Ordinal(); ok && bl.Kind.IsBackReference() && ref >= position {
			b.WriteString(bl.WithOrdinal(ref + 1).Marker())
		} else {
			b.WriteString(m.Text(text))
		}
		pos = m.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}

// BindBackReference points the back-reference at ordinal to target.
func (n *Note) BindBackReference(ordinal, target int) error {
	matches := blank.FindAll(n.Content)
	if ordinal < 1 || ordinal > len(matches) {
		return apperrors.BlankNotFoundError(ordinal)
	}
	m := matches[ordinal-1]
	bl, err := blank.ParseMarker(m.Text(n.Content))
	if err != nil {
		return err
	}
	if !bl.Kind.IsBackReference() {
		return apperrors.BackReferenceError(ordinal, target, "blank is not a back-reference")
	}
	bound := bl.WithOrdinal(target)
	if err := checkBackReference(bound, ordinal); err != nil {
		return err
	}
	n.Content = n.Content[:m.Start] + bound.Marker() + n.Content[m.End:]
	// any earlier pronoun belonged to a different person
	delete(n.Blanks, ordinal)
	return nil
}

func checkBackReference(b blank.Blank, ordinal int) error {
	ref, ok := b.Ordinal()
	if !ok || !b.Kind.IsBackReference() {
		return nil
	}
	if ref < 1 || ref >= ordinal {
		return apperrors.BackReferenceError(ordinal, ref, "target must be an earlier blank")
	}
	return nil
}

// RemoveBlanksFrom drops every value whose marker starts at or after byte index, then
// every back-reference that pointed at a dropped blank. Content is left untouched.
func (n *Note) RemoveBlanksFrom(index int) {
	if len(n.Blanks) == 0 {
		return
	}
	matches := blank.FindAll(n.Content)
	first := len(matches) + 1
	for i, m := range matches {
		if m.Start >= index {
			first = i + 1
			break
		}
	}

	removed := make(map[int]bool)
	for ordinal := range n.Blanks {
		if ordinal >= first {
			removed[ordinal] = true
			delete(n.Blanks, ordinal)
		}
	}

	for changed := true; changed; {
		changed = false
		for ordinal, v := range n.Blanks {
			ref, ok := v.Blank.Ordinal()
			if !ok || !v.Blank.Kind.IsBackReference() {
				continue
			}
			if ref >= first || removed[ref] {
				removed[ordinal] = true
				delete(n.Blanks, ordinal)
				changed = true
			}
		}
	}
}

// Truncate cuts the content at byte index, moving the cut back to the start of any
// marker it would split, and drops the values of every removed blank.
func (n *Note) Truncate(index int) {
	index = n.snapIndex(index)
	n.RemoveBlanksFrom(index)
	n.Content = n.Content[:index]
}

// snapIndex clamps index into the content, onto a rune boundary and out of any marker.
func (n *Note) snapIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(n.Content) {
		return len(n.Content)
	}
	for index > 0 && !utf8.RuneStart(n.Content[index]) {
		index--
	}
	if m, ok := blank.MarkerAt(n.Content, index); ok {
		return m.Start
	}
	return index
}

// Fill records the value of the blank at ordinal. The blank itself is always taken
// from the content so the map cannot disagree with the marker.
func (n *Note) Fill(ordinal int, v BlankValue) error {
	b, err := n.BlankAt(ordinal)
	if err != nil {
		return err
	}
	if !v.Pending && strings.TrimSpace(v.Display) == "" {
		return apperrors.ValidationError(fmt.Sprintf("value for blank #%d is empty", ordinal))
	}
	v.Blank = b
	if n.Blanks == nil {
		n.Blanks = make(map[int]BlankValue)
	}
	if prev, ok := n.Blanks[ordinal]; ok && !slices.Equal(prev.EntityIDs, v.EntityIDs) {
		n.dropPronounsOf(ordinal, b)
	}
	n.Blanks[ordinal] = v
	return nil
}

// dropPronounsOf forgets pronoun values worked out from the person at ordinal:
// back-references to it, and the role pronouns when it is the user or client.
func (n *Note) dropPronounsOf(ordinal int, b blank.Blank) {
	roleWide := b.Kind == blank.KindCurrentUser || b.Kind == blank.KindClient
	for other, v := range n.Blanks {
		if other == ordinal || v.Blank.Kind.PronounForm() == blank.PronounNone {
			continue
		}
		if v.Blank.Kind.IsBackReference() {
			if ref, ok := v.Blank.Ordinal(); ok && ref == ordinal {
				delete(n.Blanks, other)
			}
			continue
		}
		if roleWide && v.Blank.Kind.Role() == b.Kind.Role() {
			delete(n.Blanks, other)
		}
	}
}

// Clear forgets the value of the blank at ordinal and of back-references to it.
func (n *Note) Clear(ordinal int) {
	delete(n.Blanks, ordinal)
	for other, v := range n.Blanks {
		if ref, ok := v.Blank.Ordinal(); ok && v.Blank.Kind.IsBackReference() && ref == ordinal {
			delete(n.Blanks, other)
		}
	}
}

// ResolveBackReference returns the pronoun the back-reference at ordinal stands for.
func (n *Note) ResolveBackReference(ordinal int, people People) (string, error) {
	b, err := n.BlankAt(ordinal)
	if err != nil {
		return "", err
	}
	if !b.Kind.IsBackReference() {
		return "", apperrors.BackReferenceError(ordinal, 0, "blank is not a back-reference")
	}
	target, ok := b.Ordinal()
	if !ok {
		return "", apperrors.BackReferenceError(ordinal, 0, "back-reference has no target yet")
	}
	total := blank.Count(n.Content)
	if target < 1 || target > total {
		return "", apperrors.BackReferenceError(ordinal, target, "target blank does not exist")
	}
	if target >= ordinal {
		return "", apperrors.BackReferenceError(ordinal, target, "target must be an earlier blank")
	}

	targetBlank, err := n.BlankAt(target)
	if err != nil {
		return "", err
	}
	if !targetBlank.Kind.IsPerson() {
		return "", apperrors.BackReferenceError(ordinal, target, "target blank does not name a person")
	}
	v, ok := n.Blanks[target]
	if !ok || v.Pending {
		return "", apperrors.BackReferenceError(ordinal, target, "target blank is not filled yet")
	}
	if len(v.EntityIDs) == 0 {
		return "", apperrors.BackReferenceError(ordinal, target, "target blank has no person attached")
	}
	person, ok := people.Lookup(v.EntityIDs[0])
	if !ok {
		return "", apperrors.BackReferenceError(ordinal, target, fmt.Sprintf("unknown person %q", v.EntityIDs[0]))
	}
	return person.Pronouns.Form(b.Kind.PronounForm()), nil
}

// NoteSummary is the listing view of a note, served from the metadata cache.
type NoteSummary struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template,omitempty"`
	UserID     string    `json:"user,omitempty"`
	ClientID   string    `json:"client,omitempty"`
	Filled     int       `json:"filled"`
	Total      int       `json:"total"`
	Preview    string    `json:"preview"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FilePath   string    `json:"file_path"`
}

// Summary returns the listing view of n.
func (n *Note) Summary() NoteSummary {
	filled, total := n.Progress()
	return NoteSummary{
		ID:         n.ID,
		TemplateID: n.TemplateID,
		UserID:     n.UserID,
		ClientID:   n.ClientID,
		Filled:     filled,
		Total:      total,
		Preview:    n.Title(),
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		FilePath:   n.FilePath,
	}
}
