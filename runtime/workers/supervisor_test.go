package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingWorker panics a fixed number of times before finishing cleanly.
type countingWorker struct {
	runs     atomic.Int32
	panicsAt int32
	done     chan struct{}
}

func (w *countingWorker) Run(_ context.Context) error {
	if w.runs.Add(1) <= w.panicsAt {
		panic("boom")
	}
	close(w.done)
	return nil
}

// blockingWorker runs until its context is canceled.
type blockingWorker struct {
	started chan struct{}
}

func (w *blockingWorker) Run(ctx context.Context) error {
	close(w.started)
	<-ctx.Done()
	return nil
}

func TestSupervisor_RestartsPanickedWorker(t *testing.T) {
	req := require.New(t)

	// Given a worker that panics twice before terminating properly
	worker := &countingWorker{panicsAt: 2, done: make(chan struct{})}
	supervisor := NewSupervisor(slog.Default(), time.Millisecond)
	supervisor.Add(worker)

	// When the supervisor runs it
	finished := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(finished)
	}()

	// Then the worker is restarted after each panic and the supervisor
	// returns once the worker finishes without error
	select {
	case <-worker.done:
	case <-time.After(time.Second):
		req.FailNow("worker never completed")
	}
	select {
	case <-finished:
	case <-time.After(time.Second):
		req.FailNow("supervisor never returned")
	}
	req.Equal(int32(3), worker.runs.Load())
}

func TestSupervisor_StopCancelsWorkers(t *testing.T) {
	req := require.New(t)

	worker := &blockingWorker{started: make(chan struct{})}
	supervisor := NewSupervisor(slog.Default(), time.Millisecond)
	supervisor.Add(worker)

	finished := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(finished)
	}()

	// When Stop is called after the worker has started
	select {
	case <-worker.started:
	case <-time.After(time.Second):
		req.FailNow("worker never started")
	}
	supervisor.Stop()

	// Then the supervised goroutines unwind and Run returns
	select {
	case <-finished:
	case <-time.After(time.Second):
		req.FailNow("supervisor did not stop")
	}
}

func TestSupervisor_ParentContextCancelStopsWorkers(t *testing.T) {
	req := require.New(t)

	worker := &blockingWorker{started: make(chan struct{})}
	supervisor := NewSupervisor(slog.Default(), time.Millisecond)
	supervisor.Add(worker)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(finished)
	}()

	<-worker.started
	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		req.FailNow("supervisor did not observe parent cancellation")
	}
}
