package dashboard

import (
	"github.com/spigell/research-matcher/internal/matching"
	"github.com/spigell/research-matcher/internal/researchapi"
)

// State is what the dashboard shows.
type State int

const (
	Loading State = iota
	ProfileMissing
	LoadFailed
	JobFailed
	JobInProgress
	Empty
	Populated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case ProfileMissing:
		return "profile_missing"
	case LoadFailed:
		return "load_failed"
	case JobFailed:
		return "job_failed"
	case JobInProgress:
		return "job_in_progress"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return "unknown"
	}
}

// Inputs is everything the dashboard state is derived from.
type Inputs struct {
	InitialFetchComplete bool
	SubjectResolved      bool
	// LoadErr is the transport or API error of the initial combined fetch.
	LoadErr error
	Job     *researchapi.MatchingJobStatus
	Matches *matching.Matches
}

// Derive picks the state for in. When several conditions hold the first one
// wins: Loading, ProfileMissing, LoadFailed, JobFailed, JobInProgress, then
// Empty or Populated. A failed job hides stale matches.
func Derive(in Inputs) State {
	if !in.InitialFetchComplete {
		return Loading
	}
	if !in.SubjectResolved {
		return ProfileMissing
	}
	if in.LoadErr != nil {
		return LoadFailed
	}

	if in.Job != nil {
		switch in.Job.Status {
		case researchapi.JobFailed:
			return JobFailed
		case researchapi.JobInProgress:
			return JobInProgress
		}
	}

	if in.Matches == nil || in.Matches.Len() == 0 {
		return Empty
	}

	return Populated
}
