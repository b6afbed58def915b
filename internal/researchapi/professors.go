package researchapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const apiProfessorsPath = "/professors/"

// ProfessorQuery holds the search filters of the professors listing.
type ProfessorQuery struct {
	Query             string
	Tags              []string
	Department        string
	AcceptingStudents *bool
}

func (q ProfessorQuery) values() url.Values {
	v := url.Values{}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if len(q.Tags) > 0 {
		v.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.Department != "" {
		v.Set("department", q.Department)
	}
	if q.AcceptingStudents != nil {
		v.Set("accepting_students", strconv.FormatBool(*q.AcceptingStudents))
	}

	return v
}

// SearchProfessors lists professors matching the query across all pages.
func (c *Client) SearchProfessors(ctx context.Context, q ProfessorQuery) ([]Professor, error) {
	return getPaged[Professor](ctx, c, "professors", apiProfessorsPath, q.values())
}
