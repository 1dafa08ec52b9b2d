package models

import (
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
)

// Pronouns holds the four pronoun shapes a blank can ask for.
type Pronouns struct {
	Subject           string `yaml:"subject"`
	Object            string `yaml:"object"`
	Possessive        string `yaml:"possessive"`
	PossessivePronoun string `yaml:"possessive_pronoun"`
}

// DefaultPronouns is used when a person has none recorded.
var DefaultPronouns = Pronouns{
	Subject:           "they",
	Object:            "them",
	Possessive:        "their",
	PossessivePronoun: "theirs",
}

// Form returns the pronoun for one shape, falling back to DefaultPronouns.
func (p Pronouns) Form(form blank.PronounForm) string {
	var v, fallback string
	switch form {
	case blank.PronounSubject:
		v, fallback = p.Subject, DefaultPronouns.Subject
	case blank.PronounObject:
		v, fallback = p.Object, DefaultPronouns.Object
	case blank.PronounPossessive:
		v, fallback = p.Possessive, DefaultPronouns.Possessive
	case blank.PronounPossessivePronoun:
		v, fallback = p.PossessivePronoun, DefaultPronouns.PossessivePronoun
	}
	if v == "" {
		return fallback
	}
	return v
}

// Person is someone a blank can name: the staff member, a client or a contact.
type Person struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Role     string   `yaml:"role"`
	Pronouns Pronouns `yaml:"pronouns"`
	Goals    []string `yaml:"goals,omitempty"`
}

// People is the directory of known persons.
type People []Person

// Lookup finds a person by id.
func (p People) Lookup(id string) (Person, bool) {
	for _, person := range p {
		if person.ID == id {
			return person, true
		}
	}
	return Person{}, false
}

// WithRole returns the people holding role, in directory order.
func (p People) WithRole(role string) People {
	var out People
	for _, person := range p {
		if strings.EqualFold(person.Role, role) {
			out = append(out, person)
		}
	}
	return out
}
