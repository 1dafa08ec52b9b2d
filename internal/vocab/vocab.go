// Package vocab supplies the values blanks are filled with: closed vocabularies per blank
// kind, and providers that pick one of them (or confirmed free text) for a blank.
package vocab

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Option is one value a blank may take. EntityID is set when the value names a person.
type Option struct {
	Display  string `json:"display"`
	EntityID string `json:"entity_id,omitempty"`
}

// Request asks a provider to fill one blank.
type Request struct {
	Blank   blank.Blank
	Ordinal int
	Options []Option
}

// Choice is a provider's answer.
type Choice struct {
	Display   string
	EntityIDs []string
}

// Provider resolves a blank to a display value. Implementations may block on user input.
type Provider interface {
	Resolve(req Request) (Choice, error)
}

// Vocabulary is the closed list of display strings for each blank kind.
type Vocabulary struct {
	lists map[blank.Kind][]string
}

// Default returns the built-in vocabulary.
func Default() (*Vocabulary, error) {
	return Parse(defaultVocabulary)
}

// Parse reads a vocabulary file: a mapping from blank abbreviation to display strings.
func Parse(data []byte) (*Vocabulary, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to parse vocabulary")
	}
	v := &Vocabulary{lists: make(map[blank.Kind][]string)}
	for abbrev, values := range raw {
		kind, ok := blank.KindFromAbbreviation(abbrev)
		if !ok {
			return nil, apperrors.ValidationError(fmt.Sprintf("vocabulary lists unknown blank kind %q", abbrev))
		}
		if kind.IsBackReference() || kind.IsCustom() {
			return nil, apperrors.ValidationError(fmt.Sprintf("blank kind %q cannot have a vocabulary", abbrev))
		}
		v.add(kind, values)
	}
	return v, nil
}

func (v *Vocabulary) add(kind blank.Kind, values []string) {
	seen := make(map[string]bool, len(v.lists[kind]))
	for _, existing := range v.lists[kind] {
		seen[strings.ToLower(existing)] = true
	}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[strings.ToLower(value)] {
			continue
		}
		seen[strings.ToLower(value)] = true
		v.lists[kind] = append(v.lists[kind], value)
	}
}

// Merge adds the entries of other after this vocabulary's own, skipping duplicates.
func (v *Vocabulary) Merge(other *Vocabulary) {
	if other == nil {
		return
	}
	for kind, values := range other.lists {
		v.add(kind, values)
	}
}

// Kinds returns the kinds that have a list, in kind order.
func (v *Vocabulary) Kinds() []blank.Kind {
	kinds := make([]blank.Kind, 0, len(v.lists))
	for kind := range v.lists {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Values returns the display strings for kind.
func (v *Vocabulary) Values(kind blank.Kind) []string {
	return append([]string(nil), v.lists[kind]...)
}

// Options returns the list for kind as options.
func (v *Vocabulary) Options(kind blank.Kind) []Option {
	return Options(v.lists[kind]...)
}

// Search fuzzy-matches query against the list for kind, best match first.
func (v *Vocabulary) Search(kind blank.Kind, query string) []Option {
	return Search(v.Options(kind), query)
}

// Options wraps display strings as options.
func Options(displays ...string) []Option {
	opts := make([]Option, 0, len(displays))
	for _, d := range displays {
		opts = append(opts, Option{Display: d})
	}
	return opts
}

// Search fuzzy-matches query against option displays, best match first. An empty query
// matches everything.
func Search(options []Option, query string) []Option {
	query = strings.TrimSpace(query)
	if query == "" {
		return options
	}
	displays := make([]string, len(options))
	for i, o := range options {
		displays[i] = o.Display
	}
	matches := fuzzy.Find(query, displays)
	results := make([]Option, 0, len(matches))
	for _, match := range matches {
		results = append(results, options[match.Index])
	}
	return results
}

// Match returns the options whose display equals text, ignoring case. Options that
// repeat an earlier one exactly are left out, so more than one result means the text
// names different entities.
func Match(options []Option, text string) []Option {
	text = strings.TrimSpace(text)
	var matches []Option
	for _, o := range options {
		if strings.EqualFold(o.Display, text) && !slices.Contains(matches, o) {
			matches = append(matches, o)
		}
	}
	return matches
}

// ChoiceFor turns a picked option into a choice.
func ChoiceFor(o Option) Choice {
	c := Choice{Display: o.Display}
	if o.EntityID != "" {
		c.EntityIDs = []string{o.EntityID}
	}
	return c
}
