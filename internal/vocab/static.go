package vocab

import (
	"fmt"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
)

// StaticProvider answers from fixed values, for flags and scripted fills. A value that
// matches one of the request's options takes that option's entity; a value matching
// several is rejected.
type StaticProvider struct {
	ByOrdinal map[int]string
	ByKind    map[blank.Kind]string
	// Strict rejects values that are not among the options of a kind that has some.
	Strict bool
}

// Resolve implements Provider
func (p StaticProvider) Resolve(req Request) (Choice, error) {
	value, ok := p.ByOrdinal[req.Ordinal]
	if !ok {
		value, ok = p.ByKind[req.Blank.Kind]
	}
	if !ok || value == "" {
		return Choice{}, apperrors.NotFoundError(fmt.Sprintf("value for blank #%d", req.Ordinal))
	}

	switch matches := Match(req.Options, value); len(matches) {
	case 0:
	case 1:
		return ChoiceFor(matches[0]), nil
	default:
		return Choice{}, apperrors.ValidationError(
			fmt.Sprintf("%q matches %d %s options", value, len(matches), req.Blank.Kind.Label())).
			WithDetails("use the interactive fill to pick one")
	}
	if p.Strict && len(req.Options) > 0 && !req.Blank.Kind.IsCustom() {
		return Choice{}, apperrors.ValidationError(
			fmt.Sprintf("%q is not a %s option", value, req.Blank.Kind.Label()))
	}
	return Choice{Display: value}, nil
}
