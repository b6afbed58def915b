package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNoSubject means no usable student id was configured. Callers send the
// user to onboarding instead of querying the API.
var ErrNoSubject = errors.New("no student id configured")

// ResolveSubject validates the configured student id. Backend ids are UUIDs;
// the canonical lower-case form is returned.
func ResolveSubject(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoSubject
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a valid id: %v", ErrNoSubject, raw, err)
	}

	return id.String(), nil
}
