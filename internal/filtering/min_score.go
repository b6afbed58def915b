package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/matching"
)

type minScoreFilter struct {
	toggle
	min float64
}

// NewMinScore creates a filter that removes matches scored below the configured minimum.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg != nil {
		f.min = cfg.MinScore
	}
	if f.min < 0 || f.min > 100 {
		return fmt.Errorf("minimum score %v is out of range 0..100", f.min)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, m *matching.Matches) (*matching.Matches, Step, error) {
	initial := m.Len()
	if f.min <= 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	dropped := m.DropBelow(f.min)
	if len(dropped) > 0 {
		deps.Logger.Info("excluding matches below minimum score",
			zap.Float64("min_score", f.min),
			zap.Strings("excluded_professors", dropped),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(dropped), Left: m.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}
