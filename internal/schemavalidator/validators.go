package schemavalidator

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mugiliam/hatchworkbench/internal/rsymbol"
)

const (
	EventKindAssign  = "assign"
	EventKindRemove  = "remove"
	EventKindRefresh = "refresh"
)

var validEventKinds = []string{
	EventKindAssign,
	EventKindRemove,
	EventKindRefresh,
}

var (
	v     *validator.Validate
	vOnce sync.Once
)

// V returns the shared validator with all custom validators registered.
func V() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterValidation("eventKindValidator", eventKindValidator)
		v.RegisterValidation("symbolNameValidator", symbolNameValidator)
	})
	return v
}

// eventKindValidator checks if the given kind is a known workspace event kind.
func eventKindValidator(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	for _, validKind := range validEventKinds {
		if kind == validKind {
			return true
		}
	}
	return false
}

// symbolNameValidator checks that the value can be rendered as a symbol.
func symbolNameValidator(fl validator.FieldLevel) bool {
	return rsymbol.ValidateTargetIdentifier(fl.Field().String()) == nil
}
