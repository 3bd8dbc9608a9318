package services

import (
	"errors"
	"strings"

	"storefront/internal/validate"
)

var (
	ErrLoginRequired = errors.New("please log in to continue")
	ErrAdminRequired = errors.New("please log in as an administrator")
	ErrEmptyCart     = errors.New("your cart is empty")
)

// FormError carries per-field validation messages back to a form.
type FormError struct {
	Fields validate.Errors
}

func (e *FormError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// formErr returns nil when fe holds no messages.
func formErr(fe validate.Errors) error {
	if fe.Any() {
		return &FormError{Fields: fe}
	}
	return nil
}
