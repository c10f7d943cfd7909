package entity

import (
	"errors"
	"fmt"
)

// Domain sentinel errors. Repositories translate driver errors into
// these so upper layers can match with errors.Is.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate marks a unique key collision, such as an article URL
	// or slug that already exists.
	ErrDuplicate = errors.New("entity already exists")
)

// ValidationError reports which field failed entity validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
