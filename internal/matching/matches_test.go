package matching

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spigell/research-matcher/internal/researchapi"
)

func TestDumpToTmpFile(t *testing.T) {
	matches := Reduce([]researchapi.MatchRecord{record("a", "p1", 70), record("b", "p2", 90)})

	path, err := matches.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var dumped Matches
	if err := json.Unmarshal(data, &dumped); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if got := ids(&dumped); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected dump order %v", got)
	}
}

func TestExcludedProfessorsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}

	excluded, err := GetExcludedProfessorsFromFile(path)
	if err != nil {
		t.Fatalf("read empty file: %v", err)
	}
	if len(excluded.Items) != 0 {
		t.Fatalf("expected no exclusions, got %d", len(excluded.Items))
	}

	matches := &Matches{Items: []researchapi.MatchRecord{
		{ID: "a", Professor: &researchapi.Professor{ID: "p1", Name: "Dr. Chen", Institution: "MIT"}},
		{ID: "b", ProfessorID: "p2"},
		{ID: "c"},
	}}

	excluded.Append(matches.ToExcluded())
	excluded.Append(matches.ToExcluded())
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reloaded, err := GetExcludedProfessorsFromFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.ProfessorIDs(); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if reloaded.Items[0].Name != "Dr. Chen" || reloaded.Items[0].Institution != "MIT" {
		t.Fatalf("unexpected first entry %+v", reloaded.Items[0])
	}
}

func TestGetExcludedProfessorsFromMissingFile(t *testing.T) {
	if _, err := GetExcludedProfessorsFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExcludeKeepsOrder(t *testing.T) {
	matches := Reduce([]researchapi.MatchRecord{
		record("a", "p1", 90), record("b", "p2", 80), record("c", "p3", 70), record("d", "p4", 60),
	})
	snapshot := matches.Items

	removed := matches.Exclude([]string{"p3", "p1", "p9"})
	if !reflect.DeepEqual(removed, []string{"p1", "p3"}) {
		t.Fatalf("unexpected removed ids %v", removed)
	}
	if got := ids(matches); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Fatalf("unexpected remaining %v", got)
	}
	if len(snapshot) != 4 || snapshot[0].ID != "a" {
		t.Fatalf("earlier snapshot was modified: %v", snapshot)
	}
}

func TestDropBelow(t *testing.T) {
	matches := Reduce([]researchapi.MatchRecord{
		record("a", "p1", 90), record("b", "p2", 59.9), record("c", "p3", 60),
	})

	removed := matches.DropBelow(60)
	if !reflect.DeepEqual(removed, []string{"p2"}) {
		t.Fatalf("unexpected removed ids %v", removed)
	}
	if got := ids(matches); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("unexpected remaining %v", got)
	}
}
