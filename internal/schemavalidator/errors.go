package schemavalidator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field  string
	Value  any
	ErrStr string
}

func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.ErrStr
	}
	return ve.Field + ": " + ve.ErrStr
}

type ValidationErrors []ValidationError

func (ves ValidationErrors) Error() string {
	s := make([]string, 0, len(ves))
	for _, ve := range ves {
		s = append(s, ve.Error())
	}
	return strings.Join(s, "; ")
}

func InQuotes(s string) string {
	return "'" + s + "'"
}

var ErrInvalidSchema = ValidationError{ErrStr: "invalid schema"}

func ErrMissingRequiredAttribute(attr string) ValidationError {
	return ValidationError{
		Field:  attr,
		ErrStr: "missing required attribute",
	}
}

func ErrInvalidSymbolName(attr string, value string) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "cannot be used as a variable name " + InQuotes(value),
	}
}

func ErrUnsupportedEventKind(attr string, value string) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "unsupported event kind " + InQuotes(value),
	}
}

func ErrInvalidURL(attr string, value string) ValidationError {
	return ValidationError{
		Field:  attr,
		Value:  value,
		ErrStr: "invalid url " + InQuotes(value),
	}
}

func ErrValidationFailed(attr string) ValidationError {
	return ValidationError{
		Field:  attr,
		ErrStr: "validation failed",
	}
}

// ValidateStruct validates s with V() and maps every failure onto a
// ValidationError keyed by the JSON path of the offending field.
func ValidateStruct(s any) ValidationErrors {
	err := V().Struct(s)
	if err == nil {
		return nil
	}
	var ves ValidationErrors
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return append(ves, ErrInvalidSchema)
	}

	typ := reflect.TypeOf(s)
	for _, e := range ve {
		jsonFieldName := GetJSONFieldPath(typ, e.StructField())
		val, _ := e.Value().(string)

		switch e.Tag() {
		case "required", "required_if":
			ves = append(ves, ErrMissingRequiredAttribute(jsonFieldName))
		case "symbolNameValidator":
			ves = append(ves, ErrInvalidSymbolName(jsonFieldName, val))
		case "eventKindValidator":
			ves = append(ves, ErrUnsupportedEventKind(jsonFieldName, val))
		case "http_url", "url":
			ves = append(ves, ErrInvalidURL(jsonFieldName, val))
		default:
			ves = append(ves, ErrValidationFailed(jsonFieldName))
		}
	}
	return ves
}
