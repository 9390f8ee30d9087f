package posts

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("invalid post")

// ValidationError lists every violated draft field, keyed by its JSON name.
type ValidationError struct {
	Fields map[string]string
}

var fieldOrder = []string{"title", "author", "description", "image"}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool { return rank(keys[i]) < rank(keys[j]) })

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func rank(field string) int {
	for i, f := range fieldOrder {
		if f == field {
			return i
		}
	}
	return len(fieldOrder)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateDraft normalizes d and checks every field rule at once.
func ValidateDraft(d models.Draft) (models.Draft, error) {
	d = d.Normalize()

	err := validate.Struct(d)
	if err == nil {
		return d, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return d, fmt.Errorf("failed to validate post: %w", err)
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = message(fe)
	}
	return d, ve
}

func message(fe validator.FieldError) string {
	label := fe.StructField()
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
