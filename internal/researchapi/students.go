package researchapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Student is the subset of a student profile the client needs.
type Student struct {
	ID                  string   `json:"id"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	PreferredName       string   `json:"preferredName"`
	Email               string   `json:"email"`
	University          string   `json:"university"`
	Department          string   `json:"department"`
	DegreeLevel         string   `json:"degreeLevel"`
	PrimaryInterests    []string `json:"primaryInterests"`
	ProfileCompleteness int      `json:"profileCompleteness"`
}

// DisplayName prefers the preferred name over the first name.
func (s *Student) DisplayName() string {
	first := s.FirstName
	if strings.TrimSpace(s.PreferredName) != "" {
		first = s.PreferredName
	}

	return strings.TrimSpace(first + " " + s.LastName)
}

// GetStudent returns the profile of a student. A missing profile surfaces as a
// FetchError for which IsNotFound is true.
func (c *Client) GetStudent(ctx context.Context, id string) (*Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("student id is required")
	}

	var student Student
	if err := c.getJSON(ctx, "student", fmt.Sprintf("/students/%s/", url.PathEscape(id)), nil, &student); err != nil {
		return nil, err
	}

	return &student, nil
}
