package matching

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spigell/research-matcher/internal/researchapi"
)

// Matches is the deduplicated, ranked list shown to the student. It is
// derived from the fetched records and never read back from disk.
type Matches struct {
	Items []researchapi.MatchRecord
}

type ExcludedProfessors struct {
	Items []*ExcludedProfessor
}

type ExcludedProfessor struct {
	ID          string
	Name        string
	Institution string
	ExcludedAt  time.Time
}

func (m *Matches) Len() int {
	return len(m.Items)
}

func (m *Matches) FindByCandidate(id string) *researchapi.MatchRecord {
	for i := range m.Items {
		if m.Items[i].CandidateID() == id {
			return &m.Items[i]
		}
	}
	return nil
}

// CandidateIDs returns professor ids in display order.
func (m *Matches) CandidateIDs() []string {
	ids := make([]string, 0, len(m.Items))
	for _, match := range m.Items {
		if id := match.CandidateID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Exclude removes matches whose candidate is in ids and returns the removed
// candidate ids. Order of the remaining matches is preserved.
func (m *Matches) Exclude(ids []string) []string {
	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	return m.removeWhere(func(match researchapi.MatchRecord) bool {
		_, ok := targets[match.CandidateID()]
		return ok
	})
}

// DropBelow removes matches scored under score and returns their candidate ids.
func (m *Matches) DropBelow(score float64) []string {
	return m.removeWhere(func(match researchapi.MatchRecord) bool {
		return match.Score < score
	})
}

// removeWhere builds a new backing slice so lists handed out earlier stay intact.
func (m *Matches) removeWhere(drop func(researchapi.MatchRecord) bool) []string {
	var removed []string
	kept := make([]researchapi.MatchRecord, 0, len(m.Items))
	for _, match := range m.Items {
		if drop(match) {
			removed = append(removed, match.CandidateID())
			continue
		}
		kept = append(kept, match)
	}
	m.Items = kept
	return removed
}

// Records returns a copy of the items, suitable as Reduce input.
func (m *Matches) Records() []researchapi.MatchRecord {
	records := make([]researchapi.MatchRecord, len(m.Items))
	copy(records, m.Items)
	return records
}

// DumpToTmpFile exports the list for the user. The file is never read back.
func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (m *Matches) ToExcluded() *ExcludedProfessors {
	excluded := &ExcludedProfessors{}
	now := time.Now().UTC()
	for _, match := range m.Items {
		id := match.CandidateID()
		if id == "" {
			continue
		}

		entry := &ExcludedProfessor{ID: id, ExcludedAt: now}
		if match.Professor != nil {
			entry.Name = match.Professor.Name
			entry.Institution = match.Professor.Institution
		}
		excluded.Items = append(excluded.Items, entry)
	}
	return excluded
}

// GetExcludedProfessorsFromFile reads an exclude file. An empty file holds no
// exclusions.
func GetExcludedProfessorsFromFile(path string) (*ExcludedProfessors, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedProfessors{}, nil
	}

	var excluded ExcludedProfessors
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose id is not excluded yet.
func (e *ExcludedProfessors) Append(s *ExcludedProfessors) {
	known := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		known[item.ID] = struct{}{}
	}

	for _, item := range s.Items {
		if _, ok := known[item.ID]; ok {
			continue
		}
		known[item.ID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedProfessors) ProfessorIDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, professor := range e.Items {
		ids = append(ids, professor.ID)
	}
	return ids
}

func (e *ExcludedProfessors) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
