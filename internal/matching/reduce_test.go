package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/research-matcher/internal/researchapi"
)

func record(id, candidate string, score float64) researchapi.MatchRecord {
	return researchapi.MatchRecord{
		ID:        id,
		Professor: &researchapi.Professor{ID: candidate},
		Score:     score,
	}
}

func ids(m *Matches) []string {
	out := make([]string, 0, m.Len())
	for _, item := range m.Items {
		out = append(out, item.ID)
	}
	return out
}

func TestReduce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []researchapi.MatchRecord
		expect  []string
	}{
		{
			name:    "empty input",
			records: nil,
			expect:  []string{},
		},
		{
			name:    "single record",
			records: []researchapi.MatchRecord{record("a", "p1", 50)},
			expect:  []string{"a"},
		},
		{
			name: "duplicates keep the maximum score",
			records: []researchapi.MatchRecord{
				record("a", "p1", 60),
				record("b", "p1", 91),
				record("c", "p1", 75),
			},
			expect: []string{"b"},
		},
		{
			name: "first seen wins a tie",
			records: []researchapi.MatchRecord{
				record("a", "p1", 80),
				record("b", "p1", 80),
			},
			expect: []string{"a"},
		},
		{
			name: "sorted by score descending",
			records: []researchapi.MatchRecord{
				record("a", "p1", 70),
				record("b", "p2", 95),
				record("c", "p3", 82),
			},
			expect: []string{"b", "c", "a"},
		},
		{
			name: "equal scores keep insertion order",
			records: []researchapi.MatchRecord{
				record("a", "p1", 70),
				record("b", "p2", 70),
				record("c", "p3", 90),
				record("d", "p1", 70),
				record("e", "p4", 70),
			},
			expect: []string{"c", "a", "b", "e"},
		},
		{
			name: "replacement keeps the first seen position",
			records: []researchapi.MatchRecord{
				record("a", "p1", 50),
				record("b", "p2", 60),
				record("c", "p1", 60),
			},
			expect: []string{"c", "b"},
		},
		{
			name: "flat professor ids are deduplicated with nested ones",
			records: []researchapi.MatchRecord{
				{ID: "a", ProfessorID: "p1", Score: 40},
				record("b", "p1", 45),
			},
			expect: []string{"b"},
		},
		{
			name: "records without candidate are kept apart",
			records: []researchapi.MatchRecord{
				{ID: "a", Score: 40},
				{ID: "b", Score: 30},
				record("c", "p1", 35),
			},
			expect: []string{"a", "c", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Reduce(tt.records)); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestReduceMaximumPerCandidate(t *testing.T) {
	records := []researchapi.MatchRecord{
		record("a", "p1", 12), record("b", "p2", 88), record("c", "p1", 99),
		record("d", "p3", 40), record("e", "p2", 87), record("f", "p1", 98),
		record("g", "p3", 41), record("h", "p2", 88),
	}
	best := map[string]float64{"p1": 99, "p2": 88, "p3": 41}

	matches := Reduce(records)
	if matches.Len() != len(best) {
		t.Fatalf("expected %d matches, got %d", len(best), matches.Len())
	}

	for candidate, score := range best {
		match := matches.FindByCandidate(candidate)
		if match == nil {
			t.Fatalf("missing candidate %s", candidate)
		}
		if match.Score != score {
			t.Fatalf("candidate %s: expected score %v, got %v", candidate, score, match.Score)
		}
	}

	for i := 1; i < matches.Len(); i++ {
		if matches.Items[i-1].Score < matches.Items[i].Score {
			t.Fatalf("not sorted at %d: %v < %v", i, matches.Items[i-1].Score, matches.Items[i].Score)
		}
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	records := []researchapi.MatchRecord{
		record("a", "p1", 80), record("b", "p2", 80), record("c", "p1", 80),
		record("d", "p3", 95), record("e", "p2", 60),
	}

	first := Reduce(records)
	second := Reduce(first.Records())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected %v, got %v", ids(first), ids(second))
	}

	if again := Reduce(records); !reflect.DeepEqual(first, again) {
		t.Fatalf("expected repeated calls to be identical")
	}
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	records := []researchapi.MatchRecord{
		record("a", "p1", 10), record("b", "p2", 90), record("c", "p1", 50),
	}
	before := make([]researchapi.MatchRecord, len(records))
	copy(before, records)

	Reduce(records)

	if !reflect.DeepEqual(before, records) {
		t.Fatalf("input was modified")
	}
}

func TestReduceScenario(t *testing.T) {
	records := []researchapi.MatchRecord{
		{ID: "m1", StudentID: "s1", Professor: &researchapi.Professor{ID: "p1"}, Score: 90},
		{ID: "m2", StudentID: "s1", Professor: &researchapi.Professor{ID: "p1"}, Score: 95},
		{ID: "m3", StudentID: "s1", Professor: &researchapi.Professor{ID: "p2"}, Score: 88},
	}

	matches := Reduce(records)
	if matches.Len() != 2 {
		t.Fatalf("expected 2 matches, got %d", matches.Len())
	}

	expect := []struct {
		id        string
		candidate string
		score     float64
	}{
		{"m2", "p1", 95},
		{"m3", "p2", 88},
	}
	for i, e := range expect {
		got := matches.Items[i]
		if got.ID != e.id || got.CandidateID() != e.candidate || got.Score != e.score {
			t.Fatalf("position %d: expected %s/%s/%v, got %s/%s/%v",
				i, e.id, e.candidate, e.score, got.ID, got.CandidateID(), got.Score)
		}
	}
}

func TestStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  float64
		expect string
	}{
		{100, "Excellent Match"},
		{80, "Excellent Match"},
		{79.99, "Good Match"},
		{60, "Good Match"},
		{40, "Fair Match"},
		{39.5, "Weak Match"},
		{0, "Weak Match"},
	}

	for _, tt := range tests {
		if got := Strength(tt.score); got != tt.expect {
			t.Fatalf("score %v: expected %q, got %q", tt.score, tt.expect, got)
		}
	}
}
