package service

import (
	"fmt"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/vocab"
	"go.uber.org/zap"
)

var pronounChoices = map[blank.PronounForm][]string{
	blank.PronounSubject:           {"they", "she", "he"},
	blank.PronounObject:            {"them", "her", "him"},
	blank.PronounPossessive:        {"their", "her", "his"},
	blank.PronounPossessivePronoun: {"theirs", "hers", "his"},
}

// Options lists the values offered for the blank at ordinal. Free-text kinds and
// back-references have none.
func (s *Service) Options(note *models.Note, ordinal int) ([]vocab.Option, error) {
	b, err := note.BlankAt(ordinal)
	if err != nil {
		return nil, err
	}

	switch {
	case b.Kind.IsBackReference() || b.Kind.IsCustom():
		return nil, nil
	case b.Kind == blank.KindClientGoal:
		return s.clientGoals(note)
	case b.Kind.IsPerson():
		people, err := s.People()
		if err != nil {
			return nil, err
		}
		var options []vocab.Option
		for _, p := range people.WithRole(b.Kind.Role()) {
			options = append(options, vocab.Option{Display: p.Name, EntityID: p.ID})
		}
		return options, nil
	case b.Kind.PronounForm() != blank.PronounNone:
		return vocab.Options(pronounChoices[b.Kind.PronounForm()]...), nil
	}
	return s.vocabulary.Options(b.Kind), nil
}

func (s *Service) clientGoals(note *models.Note) ([]vocab.Option, error) {
	client, ok, err := s.personFor(note, blank.RoleClient)
	if err != nil || !ok {
		return s.vocabulary.Options(blank.KindClientGoal), err
	}
	if len(client.Goals) == 0 {
		return s.vocabulary.Options(blank.KindClientGoal), nil
	}
	return vocab.Options(client.Goals...), nil
}

// personFor finds the person holding role in a note: the note's own user or client id,
// or else whoever fills the first blank of that role.
func (s *Service) personFor(note *models.Note, role string) (models.Person, bool, error) {
	people, err := s.People()
	if err != nil {
		return models.Person{}, false, err
	}

	id := ""
	switch role {
	case blank.RoleUser:
		id = note.UserID
	case blank.RoleClient:
		id = note.ClientID
	}
	if id == "" {
		ordered, err := note.OrderedBlanks()
		if err != nil {
			return models.Person{}, false, err
		}
		for _, ob := range ordered {
			v, ok := note.Blanks[ob.Ordinal]
			if ob.Blank.Kind.IsPerson() && ob.Blank.Kind.Role() == role && ok && len(v.EntityIDs) > 0 {
				id = v.EntityIDs[0]
				break
			}
		}
	}
	if id == "" {
		return models.Person{}, false, nil
	}
	person, ok := people.Lookup(id)
	return person, ok, nil
}

// Derive works out the value of a blank that needs no input. ok is false when the
// blank is not derived or the note lacks what it needs; a back-reference that cannot
// be resolved is an error.
func (s *Service) Derive(note *models.Note, ordinal int) (value models.BlankValue, ok bool, err error) {
	b, err := note.BlankAt(ordinal)
	if err != nil {
		return value, false, err
	}
	if b.Kind.Resolution() != blank.ResolveDerived {
		return value, false, nil
	}
	value.Blank = b

	switch {
	case b.Kind == blank.KindTodaysDate:
		value.Display = s.now().Format(DateFormat)
		return value, true, nil

	case b.Kind.IsBackReference():
		people, err := s.People()
		if err != nil {
			return value, false, err
		}
		pronoun, err := note.ResolveBackReference(ordinal, people)
		if err != nil {
			return value, false, err
		}
		value.Display = pronoun
		return value, true, nil

	case b.Kind.IsPerson():
		person, found, err := s.personFor(note, b.Kind.Role())
		if err != nil || !found {
			return value, false, err
		}
		value.Display = person.Name
		value.EntityIDs = []string{person.ID}
		return value, true, nil

	case b.Kind.PronounForm() != blank.PronounNone:
		person, found, err := s.personFor(note, b.Kind.Role())
		if err != nil || !found {
			return value, false, err
		}
		value.Display = person.Pronouns.Form(b.Kind.PronounForm())
		value.EntityIDs = []string{person.ID}
		return value, true, nil
	}
	return value, false, nil
}

// FillBlank fills the blank at ordinal, deriving it when possible and asking provider
// otherwise. The note is updated but not saved.
func (s *Service) FillBlank(note *models.Note, ordinal int, provider vocab.Provider) (models.BlankValue, error) {
	value, ok, err := s.Derive(note, ordinal)
	if err != nil {
		return value, err
	}

	if !ok {
		b, err := note.BlankAt(ordinal)
		if err != nil {
			return value, err
		}
		if provider == nil {
			return value, apperrors.ValidationError(fmt.Sprintf("blank #%d (%s) needs a value", ordinal, b.Kind.Label()))
		}
		options, err := s.Options(note, ordinal)
		if err != nil {
			return value, err
		}
		choice, err := provider.Resolve(vocab.Request{Blank: b, Ordinal: ordinal, Options: options})
		if err != nil {
			return value, err
		}
		value = models.BlankValue{Blank: b, Display: choice.Display, EntityIDs: choice.EntityIDs}
	}

	if err := note.Fill(ordinal, value); err != nil {
		return value, err
	}
	s.adoptPerson(note, value)

	s.logger.Debug("blank filled",
		zap.String("note", note.ID),
		zap.Int("ordinal", ordinal),
		zap.String("kind", value.Blank.Abbreviation()),
		zap.Bool("derived", ok))
	return note.Blanks[ordinal], nil
}

// adoptPerson records the first user or client picked for a note on the note itself.
func (s *Service) adoptPerson(note *models.Note, value models.BlankValue) {
	if len(value.EntityIDs) == 0 || !value.Blank.Kind.IsPerson() {
		return
	}
	switch value.Blank.Kind.Role() {
	case blank.RoleUser:
		if note.UserID == "" {
			note.UserID = value.EntityIDs[0]
		}
	case blank.RoleClient:
		if note.ClientID == "" {
			note.ClientID = value.EntityIDs[0]
		}
	}
}

// FillAll fills every unfilled blank in order and returns how many were filled. It
// stops at the first error; blanks filled before it stay filled.
func (s *Service) FillAll(note *models.Note, provider vocab.Provider) (int, error) {
	total := blank.Count(note.Content)
	filled := 0
	for ordinal := 1; ordinal <= total; ordinal++ {
		if v, ok := note.Blanks[ordinal]; ok && !v.Pending {
			continue
		}
		if _, err := s.FillBlank(note, ordinal, provider); err != nil {
			return filled, err
		}
		filled++
	}
	return filled, nil
}

// Prefill fills every derivable blank that is still empty and returns the count.
func (s *Service) Prefill(note *models.Note) int {
	total := blank.Count(note.Content)
	filled := 0
	for ordinal := 1; ordinal <= total; ordinal++ {
		if _, ok := note.Blanks[ordinal]; ok {
			continue
		}
		value, ok, err := s.Derive(note, ordinal)
		if err != nil {
			s.logger.Debug("blank not derived", zap.Int("ordinal", ordinal), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if err := note.Fill(ordinal, value); err != nil {
			continue
		}
		filled++
	}
	return filled
}
