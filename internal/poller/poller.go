package poller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/logger"
	"github.com/spigell/research-matcher/internal/researchapi"
	"github.com/spigell/research-matcher/internal/utils"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultTimeout  = 15 * time.Second
)

// StatusSource reads the matching job of a student.
type StatusSource interface {
	GetMatchingStatus(ctx context.Context, studentID string) (*researchapi.MatchingJobStatus, error)
}

// TickObserver receives the outcome of every tick.
type TickObserver interface {
	ObserveTick(outcome string, status *researchapi.MatchingJobStatus)
}

// Hooks are called from the polling goroutine.
type Hooks struct {
	// OnStatus receives every successfully fetched status.
	OnStatus func(status *researchapi.MatchingJobStatus)
	// OnCompleted runs once, after the ticker is stopped, when the job completes.
	OnCompleted func(ctx context.Context)
}

type Config struct {
	Interval time.Duration
	// Timeout bounds a single status request.
	Timeout time.Duration
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.ticker.C }

func (t timeTicker) Stop() { t.ticker.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{ticker: time.NewTicker(d)}
}

// Poller keeps reading the job status of one student while it is in progress.
type Poller struct {
	source    StatusSource
	studentID string
	cfg       Config
	hooks     Hooks
	logger    *zap.Logger

	Observer  TickObserver
	NewTicker func(d time.Duration) Ticker
	// Wait pauses AwaitStart between attempts.
	Wait func(ctx context.Context, d time.Duration) error
}

func New(source StatusSource, studentID string, cfg Config, hooks Hooks, log *zap.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Poller{
		source:    source,
		studentID: studentID,
		cfg:       cfg,
		hooks:     hooks,
		logger:    logger.WithSubject(log, studentID),
		NewTicker: newTimeTicker,
		Wait:      utils.WaitFor,
	}
}

// Run polls on every tick until the job leaves in_progress or ctx is done.
// It returns the last status it saw, which is nil when no tick succeeded.
//
// A tick finishes its request before the next tick is read; ticks that fire
// meanwhile are dropped by the ticker, so requests never overlap.
func (p *Poller) Run(ctx context.Context) (*researchapi.MatchingJobStatus, error) {
	ticker := p.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.Debug("polling matching job", zap.Duration("interval", p.cfg.Interval))

	var last *researchapi.MatchingJobStatus
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C():
		}

		status, err := p.tick(ctx)
		if ctx.Err() != nil {
			return last, ctx.Err()
		}
		if err != nil {
			p.logger.Warn("polling matching status failed, retrying on next tick", zap.Error(err))
			p.observe("error", nil)
			continue
		}

		last = status
		p.observe("ok", status)
		if p.hooks.OnStatus != nil {
			p.hooks.OnStatus(status)
		}

		if status.Status == researchapi.JobInProgress {
			p.logger.Debug("matching job in progress", zap.Int("progress", status.Progress))
			continue
		}

		ticker.Stop()
		p.logger.Info("matching job left in_progress, polling stopped", logger.JobStatus(string(status.Status)))

		if status.Status == researchapi.JobCompleted && p.hooks.OnCompleted != nil {
			p.hooks.OnCompleted(ctx)
		}

		return status, nil
	}
}

func (p *Poller) tick(ctx context.Context) (*researchapi.MatchingJobStatus, error) {
	tickCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	return p.source.GetMatchingStatus(tickCtx, p.studentID)
}

func (p *Poller) observe(outcome string, status *researchapi.MatchingJobStatus) {
	if p.Observer != nil {
		p.Observer.ObserveTick(outcome, status)
	}
}

// ErrNotStarted is returned by AwaitStart when the job is still not running
// after all attempts.
var ErrNotStarted = errors.New("matching job has not started")

// AwaitStart re-reads the status right after a job was requested, until the
// backend reports anything other than pending or not_found. Failed reads count
// as attempts.
func (p *Poller) AwaitStart(ctx context.Context, attempts int) (*researchapi.MatchingJobStatus, error) {
	var last *researchapi.MatchingJobStatus
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := p.Wait(ctx, p.cfg.Interval); err != nil {
				return last, err
			}
		}

		status, err := p.tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			p.logger.Warn("reading matching status failed", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}

		last = status
		if p.hooks.OnStatus != nil {
			p.hooks.OnStatus(status)
		}

		switch status.Status {
		case researchapi.JobPending, researchapi.JobNotFound:
			p.logger.Debug("waiting for matching job to start", logger.JobStatus(string(status.Status)))
		default:
			return status, nil
		}
	}

	return last, ErrNotStarted
}
