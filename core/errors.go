package core

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrForbidden is returned when the caller's role does not allow an operation.
var ErrForbidden = errors.New("Access denied. Insufficient permissions.")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
	Errs   validator.ValidationErrors // untranslated field errors
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMessages returns {field: message} for every failing field, translating validator errors.
func (err ValidationError) FieldMessages(translator ut.Translator) map[string]string {
	if len(err.Fields) == 0 && len(err.Errs) == 0 {
		return nil
	}
	msgs := make(map[string]string, len(err.Fields)+len(err.Errs))
	for _, vErr := range err.Errs {
		msgs[vErr.Field()] = vErr.Translate(translator)
	}
	for _, fErr := range err.Fields {
		msgs[fErr.Field] = fErr.Error
	}
	return msgs
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
