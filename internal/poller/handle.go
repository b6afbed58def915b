package poller

import (
	"context"
	"sync"

	"github.com/spigell/research-matcher/internal/researchapi"
)

// Handle controls a poller started in the background.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	status *researchapi.MatchingJobStatus
	err    error
}

// Start runs the poller in its own goroutine. Cancelling ctx or calling Stop
// ends it.
func (p *Poller) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()

		status, err := p.Run(ctx)

		h.mu.Lock()
		h.status, h.err = status, err
		h.mu.Unlock()
	}()

	return h
}

// Stop cancels polling and waits for the goroutine to exit.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until polling ends and returns the result of Run.
func (h *Handle) Wait() (*researchapi.MatchingJobStatus, error) {
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.err
}
