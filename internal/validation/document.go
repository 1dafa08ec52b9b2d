package validation

import (
	"fmt"
	"sort"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
)

// ValidateTemplate checks a template's identity and content.
func ValidateTemplate(t *models.Template) *ValidationResult {
	result := newResult()
	if t.ID == "" {
		result.addError("id", "REQUIRED_FIELD_MISSING", "Field 'id' is required", nil)
	} else if !idPattern.MatchString(t.ID) {
		result.addError("id", "PATTERN_MISMATCH", "Field 'id' may only contain letters, digits, '-' and '_'", t.ID)
	}
	if t.Name == "" {
		result.addWarning("name", "template has no name", nil)
	}
	validateContent(t.Content, result)
	return result
}

// ValidateNote checks a note's content and that its value map agrees with the markers.
func ValidateNote(n *models.Note) *ValidationResult {
	result := newResult()
	if n.ID == "" {
		result.addError("id", "REQUIRED_FIELD_MISSING", "Field 'id' is required", nil)
	}
	blanks := validateContent(n.Content, result)
	if blanks == nil {
		return result
	}

	ordinals := make([]int, 0, len(n.Blanks))
	for ordinal := range n.Blanks {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)

	for _, ordinal := range ordinals {
		v := n.Blanks[ordinal]
		field := fmt.Sprintf("blank #%d", ordinal)
		if ordinal < 1 || ordinal > len(blanks) {
			result.addError(field, "STALE_BLANK", fmt.Sprintf("no marker for value of blank #%d", ordinal), v.Display)
			continue
		}
		if v.Blank != blanks[ordinal-1] {
			result.addError(field, "BLANK_MISMATCH",
				fmt.Sprintf("value was recorded for %s but the marker is %s", v.Blank, blanks[ordinal-1]), v.Display)
		}
		switch {
		case v.Pending:
			result.addWarning(field, "free text is waiting for confirmation", v.Display)
		case v.Display == "":
			result.addError(field, "EMPTY_VALUE", "value has no display text", nil)
		}
	}
	return result
}

// validateContent checks marker syntax, decodability and back-reference targets. It
// returns the decoded blanks, or nil when the content could not be decoded.
func validateContent(content string, result *ValidationResult) []blank.Blank {
	for _, m := range blank.FindMalformed(content) {
		result.addError("content", "MALFORMED_MARKER",
			fmt.Sprintf("%q at offset %d is not a recognized marker", m.Text(content), m.Start), m.Text(content))
	}

	matches := blank.FindAll(content)
	blanks := make([]blank.Blank, 0, len(matches))
	decoded := true
	for i, m := range matches {
		b, err := blank.ParseMarker(m.Text(content))
		if err != nil {
			result.addError(fmt.Sprintf("blank #%d", i+1), "MALFORMED_MARKER", err.Error(), m.Text(content))
			decoded = false
			continue
		}
		blanks = append(blanks, b)
	}
	if !decoded {
		return nil
	}

	for i, b := range blanks {
		ordinal := i + 1
		if !b.Kind.IsBackReference() {
			continue
		}
		field := fmt.Sprintf("blank #%d", ordinal)
		target, ok := b.Ordinal()
		switch {
		case !ok:
			result.addWarning(field, "back-reference is not bound to a blank yet", b.Marker())
		case target < 1 || target >= ordinal:
			result.addError(field, "INVALID_BACK_REFERENCE",
				fmt.Sprintf("back-reference must point at an earlier blank, not #%d", target), b.Marker())
		case !blanks[target-1].Kind.IsPerson():
			result.addError(field, "INVALID_BACK_REFERENCE",
				fmt.Sprintf("blank #%d (%s) does not name a person", target, blanks[target-1].Kind.Label()), b.Marker())
		}
	}

	if normalized := models.NormalizeSpacing(content); normalized != content {
		result.addWarning("content", "sentence spacing is not normalized", nil)
	}
	return blanks
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}
}

func (result *ValidationResult) addError(field, code, message string, value interface{}) {
	result.Valid = false
	result.Errors = append(result.Errors, ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
		Value:   value,
	})
}

func (result *ValidationResult) addWarning(field, message string, value interface{}) {
	result.Warnings = append(result.Warnings, ValidationWarning{
		Field:   field,
		Message: message,
		Value:   value,
	})
}
