package resource

import (
	"fmt"
	"strings"
)

const maxFieldLength = 200

// Validate checks r before persistence. Name and category are trimmed.
func Validate(r *Resource) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Location = strings.TrimSpace(r.Location)

	if r.Name == "" || r.Category == "" {
		return ErrMissingFields
	}
	for field, v := range map[string]string{"name": r.Name, "category": r.Category, "location": r.Location} {
		if len(v) > maxFieldLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, field, maxFieldLength)
		}
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
