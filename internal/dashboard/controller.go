package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/research-matcher/internal/filtering"
	"github.com/spigell/research-matcher/internal/logger"
	"github.com/spigell/research-matcher/internal/matching"
	"github.com/spigell/research-matcher/internal/poller"
	"github.com/spigell/research-matcher/internal/researchapi"
)

// ErrProfileMissing is returned by Load when the student has no profile yet.
var ErrProfileMissing = errors.New("student profile not found")

// API is the part of the research API the dashboard reads from.
type API interface {
	poller.StatusSource
	GetStudent(ctx context.Context, id string) (*researchapi.Student, error)
	GetMatches(ctx context.Context, q researchapi.MatchQuery) ([]researchapi.MatchRecord, error)
	GenerateMatches(ctx context.Context, studentID string, useAI bool) error
}

// Snapshot is a read-only copy of the dashboard state.
type Snapshot struct {
	Inputs
	State     State
	Student   *researchapi.Student
	UpdatedAt time.Time
}

type Options struct {
	Filters *filtering.Config
	Poll    poller.Config
	// StartAttempts bounds how long Generate waits for the job to start.
	StartAttempts int
	TickObserver  poller.TickObserver
	// NewTicker replaces the poller ticker, used by tests.
	NewTicker func(time.Duration) poller.Ticker
	Wait      func(context.Context, time.Duration) error
}

// Controller owns the dashboard state of one student. Loads are serialized;
// the snapshot may be read from any goroutine.
type Controller struct {
	api       API
	studentID string
	opts      Options
	logger    *zap.Logger

	loadMu sync.Mutex

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []func(Snapshot)
}

func NewController(api API, studentID string, opts Options, log *zap.Logger) *Controller {
	if opts.Filters == nil {
		opts.Filters = &filtering.Config{}
	}
	if opts.StartAttempts <= 0 {
		opts.StartAttempts = 10
	}

	c := &Controller{
		api:       api,
		studentID: studentID,
		opts:      opts,
		logger:    logger.WithSubject(log, studentID),
	}
	c.snapshot = Snapshot{State: Loading, UpdatedAt: time.Now()}

	return c
}

// OnChange registers a listener called after every state change.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Controller) update(fn func(s *Snapshot)) {
	c.mu.Lock()
	fn(&c.snapshot)
	c.snapshot.State = Derive(c.snapshot.Inputs)
	c.snapshot.UpdatedAt = time.Now()
	snapshot := c.snapshot
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

// Load runs the initial combined fetch: profile, job status and matches, in
// that order. A missing profile yields ErrProfileMissing, any other failure
// leaves the dashboard in LoadFailed and is returned as is.
func (c *Controller) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.update(func(s *Snapshot) {
		s.Inputs = Inputs{}
		s.Student = nil
	})

	student, err := c.api.GetStudent(ctx, c.studentID)
	if err != nil {
		if researchapi.IsNotFound(err) {
			c.logger.Info("student profile not found")
			c.update(func(s *Snapshot) {
				s.InitialFetchComplete = true
			})
			return ErrProfileMissing
		}
		return c.fail(fmt.Errorf("getting student profile: %w", err))
	}

	job, err := c.api.GetMatchingStatus(ctx, c.studentID)
	if err != nil {
		return c.fail(fmt.Errorf("getting matching status: %w", err))
	}

	matches, err := c.fetchMatches(ctx)
	if err != nil {
		return c.fail(err)
	}

	c.logger.Info("dashboard loaded",
		logger.JobStatus(string(job.Status)),
		zap.Int("matches", matches.Len()),
	)

	c.update(func(s *Snapshot) {
		s.InitialFetchComplete = true
		s.SubjectResolved = true
		s.Student = student
		s.Job = job
		s.Matches = matches
	})

	return nil
}

// Retry re-runs the whole initial fetch.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *Controller) fail(err error) error {
	c.logger.Warn("loading dashboard failed", zap.Error(err))
	c.update(func(s *Snapshot) {
		s.InitialFetchComplete = true
		s.SubjectResolved = true
		s.LoadErr = err
	})
	return err
}

// Refresh re-fetches the matches only. On failure the displayed list is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	matches, err := c.fetchMatches(ctx)
	if err != nil {
		c.logger.Warn("refreshing matches failed", zap.Error(err))
		return err
	}

	c.logger.Info("matches refreshed", zap.Int("matches", matches.Len()))
	c.update(func(s *Snapshot) {
		s.Matches = matches
	})

	return nil
}

func (c *Controller) fetchMatches(ctx context.Context) (*matching.Matches, error) {
	records, err := c.api.GetMatches(ctx, researchapi.MatchQuery{StudentID: c.studentID})
	if err != nil {
		return nil, fmt.Errorf("getting matches: %w", err)
	}

	reduced := matching.Reduce(records)
	c.logger.Debug("reduced matches", zap.Int("records", len(records)), zap.Int("matches", reduced.Len()))

	filtered, err := filtering.Run(ctx, c.opts.Filters, filtering.Deps{Logger: c.logger}, filtering.Default(), reduced)
	if err != nil {
		return nil, fmt.Errorf("filtering matches: %w", err)
	}

	return filtered, nil
}

// Watch polls the job while it is in progress and blocks until polling ends.
// A completed job refreshes the matches once.
func (c *Controller) Watch(ctx context.Context) error {
	snapshot := c.Snapshot()
	if snapshot.State != JobInProgress {
		return nil
	}

	_, err := c.newPoller().Run(ctx)
	return err
}

// Generate asks the backend for new matches, waits for the job to start and
// then watches it.
func (c *Controller) Generate(ctx context.Context, useAI bool) error {
	if err := c.api.GenerateMatches(ctx, c.studentID, useAI); err != nil {
		return fmt.Errorf("requesting matches generation: %w", err)
	}
	c.logger.Info("matches generation requested", zap.Bool("use_ai", useAI))

	p := c.newPoller()
	status, err := p.AwaitStart(ctx, c.opts.StartAttempts)
	if err != nil {
		return err
	}

	switch status.Status {
	case researchapi.JobInProgress:
		_, err = p.Run(ctx)
		return err
	case researchapi.JobCompleted:
		return c.Refresh(ctx)
	default:
		return nil
	}
}

func (c *Controller) newPoller() *poller.Poller {
	p := poller.New(c.api, c.studentID, c.opts.Poll, poller.Hooks{
		OnStatus: func(status *researchapi.MatchingJobStatus) {
			c.update(func(s *Snapshot) {
				s.Job = status
			})
		},
		OnCompleted: func(ctx context.Context) {
			// Failures are logged by Refresh; the next manual refresh retries.
			_ = c.Refresh(ctx)
		},
	}, c.logger)

	p.Observer = c.opts.TickObserver
	if c.opts.NewTicker != nil {
		p.NewTicker = c.opts.NewTicker
	}
	if c.opts.Wait != nil {
		p.Wait = c.opts.Wait
	}

	return p
}
