// Package validation checks command input and documents before they reach the service.
//
// SYSTEM ARCHITECTURE ROLE:
// Two layers live here. Schema validation converts and checks the flat parameter maps the
// CLI builds from flags and arguments. Document validation (document.go) checks template
// and note content: marker syntax, back-reference targets and the ordinal-keyed value map.
//
// INTEGRATION POINTS:
// - internal/cli: command handlers validate flags against the built-in schemas
// - internal/service: templates and notes are validated before they are saved
// - internal/errors: ValidationResult.ToAppError() converts failures to AppError format
//
// VALIDATION FLOW:
// 1. Input is converted to parameter map format
// 2. Validator validates parameters against the named schema
// 3. Invalid parameters generate a ValidationResult with field errors
// 4. Valid parameters are type-converted and returned in Data
//
// USAGE PATTERNS:
// - Register schemas: Use RegisterSchema() to add new validation patterns
// - Validate data: Use Validate() with schema name and parameter map
// - Validate documents: Use ValidateTemplate() and ValidateNote()
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Name      string
	Required  bool
	Type      string
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Options   []string
	Custom    func(interface{}) error
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Errors   []ValidationError      `json:"errors,omitempty"`
	Warnings []ValidationWarning    `json:"warnings,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationWarning represents a field validation warning
type ValidationWarning struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
}

// Validator provides centralized validation functionality
type Validator struct {
	schemas map[string]*Schema
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := &Validator{
		schemas: make(map[string]*Schema),
	}

	// Register built-in schemas
	v.registerBuiltinSchemas()

	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Validate validates data against a schema
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Code:    "SCHEMA_NOT_FOUND",
				Message: fmt.Sprintf("Validation schema '%s' not found", schemaName),
			}},
		}
	}

	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
		Data:     make(map[string]interface{}),
	}

	// Validate individual fields
	for fieldName, validator := range schema.Fields {
		v.validateField(fieldName, validator, data, result)
	}

	// Apply schema-level rules
	for _, rule := range schema.Rules {
		if err := rule(data); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "schema",
				Code:    "SCHEMA_RULE_VIOLATION",
				Message: err.Error(),
			})
		}
	}

	return result
}

// validateField validates a single field
func (v *Validator) validateField(fieldName string, validator FieldValidator, data map[string]interface{}, result *ValidationResult) {
	value, exists := data[fieldName]

	// Check required fields
	if validator.Required && (!exists || value == nil || value == "") {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldName,
			Code:    "REQUIRED_FIELD_MISSING",
			Message: fmt.Sprintf("Field '%s' is required", fieldName),
		})
		return
	}

	// Skip validation if field is not present and not required
	if !exists || value == nil {
		return
	}

	// Type validation and conversion
	convertedValue, err := v.validateAndConvertType(fieldName, validator.Type, value)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldName,
			Code:    "INVALID_TYPE",
			Message: err.Error(),
			Value:   value,
		})
		return
	}

	// Store converted value
	result.Data[fieldName] = convertedValue

	// Validate string-specific rules
	if validator.Type == "string" {
		strValue, ok := convertedValue.(string)
		if ok {
			if validator.MinLength > 0 && len(strValue) < validator.MinLength {
				result.Valid = false
				result.Errors = append(result.Errors, ValidationError{
					Field:   fieldName,
					Code:    "MIN_LENGTH_VIOLATION",
					Message: fmt.Sprintf("Field '%s' must be at least %d characters long", fieldName, validator.MinLength),
					Value:   strValue,
				})
			}

			if validator.MaxLength > 0 && len(strValue) > validator.MaxLength {
				result.Valid = false
				result.Errors = append(result.Errors, ValidationError{
					Field:   fieldName,
					Code:    "MAX_LENGTH_VIOLATION",
					Message: fmt.Sprintf("Field '%s' must be at most %d characters long", fieldName, validator.MaxLength),
					Value:   strValue,
				})
			}

			if validator.Pattern != nil && !validator.Pattern.MatchString(strValue) {
				result.Valid = false
				result.Errors = append(result.Errors, ValidationError{
					Field:   fieldName,
					Code:    "PATTERN_MISMATCH",
					Message: fmt.Sprintf("Field '%s' does not match required pattern", fieldName),
					Value:   strValue,
				})
			}

			if len(validator.Options) > 0 {
				validOption := false
				for _, option := range validator.Options {
					if strValue == option {
						validOption = true
						break
					}
				}
				if !validOption {
					result.Valid = false
					result.Errors = append(result.Errors, ValidationError{
						Field:   fieldName,
						Code:    "INVALID_OPTION",
						Message: fmt.Sprintf("Field '%s' must be one of: %s", fieldName, strings.Join(validator.Options, ", ")),
						Value:   strValue,
					})
				}
			}
		}
	}

	// Custom validation
	if validator.Custom != nil {
		if err := validator.Custom(convertedValue); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   fieldName,
				Code:    "CUSTOM_VALIDATION_FAILED",
				Message: fmt.Sprintf("Field '%s': %s", fieldName, err.Error()),
				Value:   convertedValue,
			})
		}
	}
}

// validateAndConvertType validates and converts value to the specified type
func (v *Validator) validateAndConvertType(fieldName, expectedType string, value interface{}) (interface{}, error) {
	switch expectedType {
	case "string":
		if str, ok := value.(string); ok {
			return str, nil
		}
		return fmt.Sprintf("%v", value), nil

	case "int":
		switch val := value.(type) {
		case int:
			return val, nil
		case float64:
			return int(val), nil
		case string:
			if intVal, err := strconv.Atoi(val); err == nil {
				return intVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be an integer", fieldName)

	case "bool":
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			if boolVal, err := strconv.ParseBool(val); err == nil {
				return boolVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be a boolean", fieldName)

	case "array":
		switch val := value.(type) {
		case []interface{}:
			return val, nil
		case []string:
			result := make([]interface{}, len(val))
			for i, v := range val {
				result[i] = v
			}
			return result, nil
		case string:
			// Handle comma-separated values
			if val != "" {
				parts := strings.Split(val, ",")
				result := make([]interface{}, len(parts))
				for i, part := range parts {
					result[i] = strings.TrimSpace(part)
				}
				return result, nil
			}
			return []interface{}{}, nil
		}
		return nil, fmt.Errorf("field '%s' must be an array", fieldName)

	default:
		return value, nil
	}
}

// registerBuiltinSchemas registers the schemas for command input
func (v *Validator) registerBuiltinSchemas() {
	idField := FieldValidator{
		Name:      "id",
		Type:      "string",
		Required:  true,
		MinLength: 1,
		MaxLength: 200,
		Pattern:   idPattern,
	}

	v.RegisterSchema(&Schema{
		Name: "create_template",
		Fields: map[string]FieldValidator{
			"id": idField,
			"name": {
				Name:      "name",
				Type:      "string",
				Required:  true,
				MinLength: 1,
				MaxLength: 500,
			},
			"category": {
				Name:      "category",
				Type:      "string",
				MaxLength: 100,
				Pattern:   idPattern,
			},
			"content": {
				Name:      "content",
				Type:      "string",
				MaxLength: 100000,
				Custom: func(value interface{}) error {
					content, _ := value.(string)
					if err := blank.CheckMarkers(content); err != nil {
						return err
					}
					_, err := blank.Decode(content)
					return err
				},
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "clone_template",
		Fields: map[string]FieldValidator{
			"id":     idField,
			"new_id": {Name: "new_id", Type: "string", MaxLength: 200, Pattern: idPattern},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "new_note",
		Fields: map[string]FieldValidator{
			"template": {Name: "template", Type: "string", Required: true, MinLength: 1, MaxLength: 200, Pattern: idPattern},
			"user":     {Name: "user", Type: "string", MaxLength: 200, Pattern: idPattern},
			"client":   {Name: "client", Type: "string", MaxLength: 200, Pattern: idPattern},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "show_note",
		Fields: map[string]FieldValidator{
			"id":            idField,
			"focus_blank":   {Name: "focus_blank", Type: "int", Custom: nonNegative},
			"focus_section": {Name: "focus_section", Type: "int", Custom: nonNegative},
			"width":         {Name: "width", Type: "int", Custom: nonNegative},
			"format": {
				Name:    "format",
				Type:    "string",
				Options: []string{"plain", "styled", "json", "markdown"},
			},
		},
		Rules: []func(map[string]interface{}) error{
			func(data map[string]interface{}) error {
				b, _ := toInt(data["focus_blank"])
				s, _ := toInt(data["focus_section"])
				if b > 0 && s > 0 {
					return fmt.Errorf("--focus-blank and --focus-section cannot be used together")
				}
				return nil
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "edit_note",
		Fields: map[string]FieldValidator{
			"id":      idField,
			"ordinal": {Name: "ordinal", Type: "int", Custom: nonNegative},
			"index":   {Name: "index", Type: "int", Custom: nonNegative},
			"strict":  {Name: "strict", Type: "bool"},
			"values": {
				Name: "values",
				Type: "array",
				Custom: func(value interface{}) error {
					items, _ := value.([]interface{})
					for _, item := range items {
						pair := fmt.Sprintf("%v", item)
						if key, _, ok := strings.Cut(pair, "="); !ok || key == "" {
							return fmt.Errorf("value %q must look like ordinal=text or kind=text", pair)
						}
					}
					return nil
				},
			},
			"kind": {
				Name: "kind",
				Type: "string",
				Custom: func(value interface{}) error {
					abbrev, _ := value.(string)
					if abbrev == "" {
						return nil
					}
					_, err := blank.ParseAbbreviation(abbrev)
					return err
				},
			},
		},
	})
}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func nonNegative(value interface{}) error {
	n, ok := toInt(value)
	if !ok || n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func toInt(value interface{}) (int, bool) {
	switch val := value.(type) {
	case int:
		return val, true
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	}
	return 0, false
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	// Use the first error as the primary error
	firstError := result.Errors[0]
	appErr := errors.ValidationError(firstError.Message)

	// Add details about all validation errors
	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}

	appErr.WithDetails(strings.Join(details, "; "))

	// Add context
	appErr.WithContext("validation_errors", result.Errors)
	if len(result.Warnings) > 0 {
		appErr.WithContext("validation_warnings", result.Warnings)
	}

	return appErr
}

// GetValidatedData returns the validated and converted data
func (result *ValidationResult) GetValidatedData() map[string]interface{} {
	if !result.Valid {
		return nil
	}
	return result.Data
}
