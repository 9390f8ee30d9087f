package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidForm = errors.New("invalid form")

// FormError carries one message per invalid form field.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(msgs, "; "))
}

func (e *FormError) Unwrap() error { return ErrInvalidForm }

// LoginForm is what the login view collects.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// RegisterForm is what the registration view collects.
type RegisterForm struct {
	Username string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var forms = validator.New(validator.WithRequiredStructEnabled())

func checkForm(form any) error {
	err := forms.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fe := &FormError{Fields: make(map[string]string, len(fieldErrs))}
	for _, f := range fieldErrs {
		fe.Fields[strings.ToLower(f.Field())] = formMessage(f)
	}
	return fe
}

func formMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return f.Field() + " is required."
	case "email":
		return f.Field() + " is invalid"
	case "min":
		return fmt.Sprintf("Minimum %s characters required", f.Param())
	default:
		return f.Field() + " is invalid"
	}
}
