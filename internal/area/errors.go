package area

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an area ID does not exist.
	ErrNotFound = errors.New("area: not found")

	// ErrInvalidInput is wrapped by every validation error.
	ErrInvalidInput = errors.New("area: invalid input")

	// ErrInvalidStatus is returned for a status outside the enum.
	ErrInvalidStatus = fmt.Errorf("%w: status must be normal, alerta or bloqueado", ErrInvalidInput)
)
