// Package validation checks API request bodies with validator/v10 and reports
// failures as domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/id"
	"github.com/listenupapp/swatches/internal/palette"
)

// Custom tags registered by New.
const (
	// TagEntryID accepts palette entry identifiers.
	TagEntryID = "entry_id"
	// TagTheme accepts the palette themes.
	TagTheme = "theme"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for palette requests.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation(TagEntryID, func(fl validator.FieldLevel) bool {
		return id.HasPrefix(fl.Field().String(), id.PrefixColor)
	})
	_ = v.RegisterValidation(TagTheme, func(fl validator.FieldLevel) bool {
		return palette.Theme(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to a single validation error listing
// every failing field.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request")
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		names = append(names, e.Field())
	}

	return domainerrors.ValidationWithDetails(
		"validation failed: "+strings.Join(names, ", "),
		fieldErrors,
	)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case TagEntryID:
		return "must be a palette entry id"
	case TagTheme:
		return fmt.Sprintf("must be %q or %q", palette.ThemeLight, palette.ThemeDark)
	default:
		return "is invalid"
	}
}
