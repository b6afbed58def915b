package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/matching"
)

type excludedProfessorsFilter struct {
	toggle
	professors []string
}

// NewExcludedProfessors creates a filter that removes matches with professors listed in the config.
func NewExcludedProfessors() Filter {
	return &excludedProfessorsFilter{}
}

func (f *excludedProfessorsFilter) Name() string { return "excluded_professors" }

func (f *excludedProfessorsFilter) Validate(cfg *Config) error {
	f.professors = nil
	if cfg == nil {
		return nil
	}
	for _, id := range cfg.ExcludedProfessors {
		if id = strings.TrimSpace(id); id != "" {
			f.professors = append(f.professors, id)
		}
	}
	return nil
}

func (f *excludedProfessorsFilter) Apply(_ context.Context, deps Deps, m *matching.Matches) (*matching.Matches, Step, error) {
	initial := m.Len()
	if len(f.professors) == 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.Exclude(f.professors)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding matches by professors",
			zap.Strings("excluded_professors", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *excludedProfessorsFilter) Status() Status {
	details := map[string]string{}
	if len(f.professors) > 0 {
		details["professors"] = strings.Join(f.professors, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
