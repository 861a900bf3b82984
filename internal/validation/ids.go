package validation

import (
	"strings"

	"vidtube/internal/models"

	"github.com/google/uuid"
)

// ParseID parses a path or query identifier. Malformed input yields
// "Invalid <label> ID", e.g. "Invalid video ID".
func ParseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, models.NewValidationError("Invalid " + label + " ID")
	}
	return id, nil
}
