package researchapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// JobState is the backend status of the asynchronous matching job.
type JobState string

const (
	JobPending    JobState = "pending"
	JobInProgress JobState = "in_progress"
	JobCompleted  JobState = "completed"
	JobFailed     JobState = "failed"
	JobNotFound   JobState = "not_found"
)

// IsTerminal reports whether no further progress is expected for the job.
func (s JobState) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobNotFound:
		return true
	default:
		return false
	}
}

// MatchingJobStatus is a read-only copy of the backend matching job.
type MatchingJobStatus struct {
	Status      JobState   `json:"status"`
	Progress    int        `json:"progress"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       string     `json:"error"`
}

// GetMatchingStatus returns the matching job status of a student.
func (c *Client) GetMatchingStatus(ctx context.Context, studentID string) (*MatchingJobStatus, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, errors.New("student id is required")
	}

	path := fmt.Sprintf("/students/%s/matching_status/", url.PathEscape(studentID))

	var status MatchingJobStatus
	if err := c.getJSON(ctx, "matching_status", path, nil, &status); err != nil {
		return nil, err
	}

	if status.Status == "" {
		status.Status = JobNotFound
	}
	status.Progress = min(max(status.Progress, 0), 100)

	return &status, nil
}
