package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned by Login without saying which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is returned by Authorize for any unusable token.
	ErrNotAuthenticated = errors.New("could not validate credentials")

	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyUpdate  = errors.New("no valid data provided")
)

// IsAuthError reports whether err means the caller is not authenticated.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrNotAuthenticated)
}

// ValidationError lists the rule each invalid input field violated.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// asValidationError converts ozzo-validation field errors into a
// ValidationError. Internal rule errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for name, fieldErr := range fieldErrs {
		ve.Fields[name] = fieldErr.Error()
	}
	return ve
}
