package researchapi

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiMatchesPath         = "/matches/"
	apiGenerateMatchesPath = "/matches/generate/"
)

// Professor is the candidate side of a match. Listings and matches may embed
// the full profile or just its id.
type Professor struct {
	ID                string   `json:"id"`
	Name              string   `json:"name,omitempty"`
	Title             string   `json:"title,omitempty"`
	Department        string   `json:"department,omitempty"`
	Institution       string   `json:"institution,omitempty"`
	ResearchAreas     []string `json:"researchAreas,omitempty"`
	AcceptingStudents bool     `json:"acceptingStudents,omitempty"`
}

// StudentRef identifies the subject of a match.
type StudentRef struct {
	ID string `json:"id"`
}

// MatchRecord is one scored pairing between a student and a professor.
type MatchRecord struct {
	ID            string      `json:"id"`
	Student       *StudentRef `json:"student,omitempty"`
	StudentID     string      `json:"studentId,omitempty"`
	Professor     *Professor  `json:"professor,omitempty"`
	ProfessorID   string      `json:"professorId,omitempty"`
	Score         float64     `json:"score"`
	AIScore       *float64    `json:"aiScore,omitempty"`
	Highlights    []string    `json:"highlights,omitempty"`
	AIExplanation string      `json:"aiExplanation,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CandidateID returns the professor id the record is scored against.
func (m *MatchRecord) CandidateID() string {
	if m.Professor != nil && m.Professor.ID != "" {
		return m.Professor.ID
	}

	return m.ProfessorID
}

// SubjectID returns the student id the record belongs to.
func (m *MatchRecord) SubjectID() string {
	if m.StudentID != "" {
		return m.StudentID
	}
	if m.Student != nil {
		return m.Student.ID
	}

	return ""
}

// MatchQuery narrows GetMatches. StudentID is required.
type MatchQuery struct {
	StudentID   string
	ProfessorID string
	MinScore    float64
}

func (q MatchQuery) values() url.Values {
	v := url.Values{}
	v.Set("student_id", q.StudentID)
	if q.ProfessorID != "" {
		v.Set("professor_id", q.ProfessorID)
	}
	if q.MinScore > 0 {
		v.Set("min_score", strconv.FormatFloat(q.MinScore, 'f', -1, 64))
	}

	return v
}

// GetMatches returns every match record of a student, unordered and possibly
// with several records per professor. Both the bare-array and the paginated
// response shapes are accepted.
func (c *Client) GetMatches(ctx context.Context, q MatchQuery) ([]MatchRecord, error) {
	if strings.TrimSpace(q.StudentID) == "" {
		return nil, errors.New("student id is required")
	}

	matches, err := getPaged[MatchRecord](ctx, c, "matches", apiMatchesPath, q.values())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got matches", zap.String("student_id", q.StudentID), zap.Int("count", len(matches)))

	return matches, nil
}

type generateRequest struct {
	StudentID string `json:"student_id"`
	UseAI     bool   `json:"use_ai"`
}

// GenerateMatches asks the backend to (re)compute matches for a student. The
// outcome is observed later through GetMatchingStatus and GetMatches.
func (c *Client) GenerateMatches(ctx context.Context, studentID string, useAI bool) error {
	if strings.TrimSpace(studentID) == "" {
		return errors.New("student id is required")
	}

	return c.postJSON(ctx, "generate", apiGenerateMatchesPath, generateRequest{
		StudentID: studentID,
		UseAI:     useAI,
	}, nil)
}
