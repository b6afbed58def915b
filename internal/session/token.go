package session

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load the API token.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline token provided via configuration or environment.
	Value string
	// File points to a file containing the token. When set it takes
	// precedence over Value.
	File string
	// Optional allows an absent token; the client then sends no Authorization header.
	Optional bool
}

// LoadToken returns the resolved token from the provided source. The returned
// token is always trimmed.
func LoadToken(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "api token"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	token := strings.TrimSpace(src.Value)
	if token == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		if src.Optional {
			return "", nil
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return token, nil
}
