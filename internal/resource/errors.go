package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource ID does not exist.
	ErrNotFound = errors.New("resource: not found")

	// ErrInvalidInput is wrapped by every validation error.
	ErrInvalidInput = errors.New("resource: invalid input")

	// ErrMissingFields is returned when name or category is blank.
	ErrMissingFields = fmt.Errorf("%w: name and category are required", ErrInvalidInput)

	// ErrInvalidStatus is returned for a status outside the enum.
	ErrInvalidStatus = fmt.Errorf("%w: unknown status", ErrInvalidInput)
)
