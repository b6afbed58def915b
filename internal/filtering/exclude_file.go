package filtering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/matching"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes matches with professors saved in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, m *matching.Matches) (*matching.Matches, Step, error) {
	initial := m.Len()
	if f.path == "" {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded, err := matching.GetExcludedProfessorsFromFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		// The file is created on the first append.
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}
	if err != nil {
		return m, Step{}, fmt.Errorf("getting excluded professors from file: %w", err)
	}

	removed := m.Exclude(excluded.ProfessorIDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding matches based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_professors", removed),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(removed), Left: m.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"path": f.path},
	}
}

// AppendToExcludeFile adds every professor of m to the exclude file at path,
// creating it when missing.
func AppendToExcludeFile(path string, m *matching.Matches) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("exclude file is not configured")
	}

	excluded, err := matching.GetExcludedProfessorsFromFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		excluded = &matching.ExcludedProfessors{}
	case err != nil:
		return 0, fmt.Errorf("reading exclude file: %w", err)
	}

	before := len(excluded.Items)
	excluded.Append(m.ToExcluded())
	if err := excluded.ToFile(path); err != nil {
		return 0, fmt.Errorf("writing exclude file: %w", err)
	}

	return len(excluded.Items) - before, nil
}
