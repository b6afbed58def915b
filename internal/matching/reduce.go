package matching

import (
	"sort"

	"github.com/spigell/research-matcher/internal/researchapi"
)

// Reduce keeps one record per candidate, the one with the highest score, and
// orders the result by score descending. On equal scores the record seen first
// wins, both when picking the canonical duplicate and when sorting.
// The input is not modified.
func Reduce(records []researchapi.MatchRecord) *Matches {
	best := make(map[string]int, len(records))
	items := make([]researchapi.MatchRecord, 0, len(records))

	for _, record := range records {
		key := dedupKey(record)

		idx, seen := best[key]
		if !seen {
			best[key] = len(items)
			items = append(items, record)
			continue
		}

		if record.Score > items[idx].Score {
			items[idx] = record
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	return &Matches{Items: items}
}

// Records without a candidate cannot collide with a professor, so they are
// keyed by their own id.
func dedupKey(record researchapi.MatchRecord) string {
	if id := record.CandidateID(); id != "" {
		return "candidate:" + id
	}

	return "record:" + record.ID
}
