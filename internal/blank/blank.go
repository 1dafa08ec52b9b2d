package blank

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"gopkg.in/yaml.v3"
)

// Marker delimiters. Neither contains an abbreviation character.
const (
	LeftDelimiter  = "(---"
	RightDelimiter = "---)"

	ordinalDelimiter = "@"
)

// Blank is one placeholder: a kind plus, for back-reference kinds, the ordinal of the
// blank whose person it refers to. The ordinal stays unset until the target is placed.
type Blank struct {
	Kind   Kind
	Ref    int
	HasRef bool
}

// New returns a blank of a fixed-role kind.
func New(kind Kind) Blank {
	return Blank{Kind: kind}
}

// BackReference returns a pronoun back-reference to the blank at ordinal.
func BackReference(kind Kind, ordinal int) Blank {
	return Blank{Kind: kind, Ref: ordinal, HasRef: true}
}

// Ordinal returns the back-reference target, if one is set.
func (b Blank) Ordinal() (int, bool) {
	return b.Ref, b.HasRef
}

// WithOrdinal returns a copy of b pointing at ordinal.
func (b Blank) WithOrdinal(ordinal int) Blank {
	b.Ref = ordinal
	b.HasRef = true
	return b
}

// Abbreviation is the code written between the delimiters, including "@n@" for bound
// back-references.
func (b Blank) Abbreviation() string {
	abbrev := b.Kind.Abbreviation()
	if b.Kind.IsBackReference() && b.HasRef {
		abbrev += ordinalDelimiter + strconv.Itoa(b.Ref) + ordinalDelimiter
	}
	return abbrev
}

// Marker is the full marker text for b.
func (b Blank) Marker() string {
	return LeftDelimiter + b.Abbreviation() + RightDelimiter
}

func (b Blank) String() string {
	return b.Marker()
}

// Prompt describes the blank. Unfilled blanks get the long form; filled blanks get the
// short label. Back-references never name the person they point at.
func (b Blank) Prompt(filled bool) string {
	if filled {
		if b.Kind.IsBackReference() && b.HasRef {
			return fmt.Sprintf("%s #%d", b.Kind.Label(), b.Ref)
		}
		return b.Kind.Label()
	}

	form := b.Kind.PronounForm()
	switch {
	case b.Kind.IsBackReference() && b.HasRef:
		return fmt.Sprintf("pronoun (%s) of whoever fills blank #%d", form, b.Ref)
	case b.Kind.IsBackReference():
		return fmt.Sprintf("pronoun (%s) of whoever fills an earlier blank", form)
	case b.Kind.Role() == RoleUser && form != PronounNone:
		return fmt.Sprintf("your pronoun (%s)", form)
	case b.Kind.Role() == RoleClient && form != PronounNone:
		return fmt.Sprintf("the client's pronoun (%s)", form)
	case !b.Kind.Valid():
		return "unknown blank"
	default:
		return kindSpecs[b.Kind].prompt
	}
}

// DefaultDisplay is what the renderer shows for an unfilled blank.
func (b Blank) DefaultDisplay() string {
	return "[" + b.Prompt(false) + "]"
}

// ParseMarker decodes full marker text such as "(---p1b@3@---)".
func ParseMarker(marker string) (Blank, error) {
	if !strings.HasPrefix(marker, LeftDelimiter) || !strings.HasSuffix(marker, RightDelimiter) ||
		len(marker) < len(LeftDelimiter)+len(RightDelimiter) {
		return Blank{}, apperrors.MalformedMarkerError(marker, "missing delimiters")
	}
	inner := marker[len(LeftDelimiter) : len(marker)-len(RightDelimiter)]
	b, err := ParseAbbreviation(inner)
	if err != nil {
		return Blank{}, apperrors.MalformedMarkerError(marker, apperrors.GetAppError(err).Details)
	}
	return b, nil
}

// ParseAbbreviation decodes the text between the delimiters.
func ParseAbbreviation(abbrev string) (Blank, error) {
	code, ordinalText, hasOrdinal := strings.Cut(abbrev, ordinalDelimiter)

	kind, ok := KindFromAbbreviation(code)
	if !ok {
		return Blank{}, apperrors.MalformedMarkerError(abbrev, fmt.Sprintf("unknown abbreviation %q", code))
	}
	if !hasOrdinal {
		return New(kind), nil
	}

	if !kind.IsBackReference() {
		return Blank{}, apperrors.MalformedMarkerError(abbrev, fmt.Sprintf("%q does not take an ordinal", code))
	}
	digits, ok := strings.CutSuffix(ordinalText, ordinalDelimiter)
	if !ok || digits == "" || strings.Contains(digits, ordinalDelimiter) {
		return Blank{}, apperrors.MalformedMarkerError(abbrev, "ordinal must be wrapped as @n@")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Blank{}, apperrors.MalformedMarkerError(abbrev, fmt.Sprintf("ordinal %q is not a number", digits))
		}
	}
	ordinal, err := strconv.Atoi(digits)
	if err != nil {
		return Blank{}, apperrors.MalformedMarkerError(abbrev, fmt.Sprintf("ordinal %q out of range", digits))
	}
	return BackReference(kind, ordinal), nil
}

// MarshalYAML stores a blank as its abbreviation.
func (b Blank) MarshalYAML() (interface{}, error) {
	return b.Abbreviation(), nil
}

// UnmarshalYAML reads a blank from its abbreviation.
func (b *Blank) UnmarshalYAML(value *yaml.Node) error {
	var abbrev string
	if err := value.Decode(&abbrev); err != nil {
		return err
	}
	parsed, err := ParseAbbreviation(abbrev)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText lets blanks appear as JSON strings.
func (b Blank) MarshalText() ([]byte, error) {
	return []byte(b.Abbreviation()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (b *Blank) UnmarshalText(text []byte) error {
	parsed, err := ParseAbbreviation(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
