package landing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thinkai/waitlist/internal/models"
)

// Task is one in-flight or settled signup submission.
type Task struct {
	ID        string
	StartedAt time.Time

	done    chan struct{}
	mu      sync.Mutex
	outcome models.Outcome
	err     error
}

func newTask(now time.Time) *Task {
	return &Task{
		ID:        uuid.NewString(),
		StartedAt: now,
		done:      make(chan struct{}),
		outcome:   models.OutcomePending,
	}
}

func (t *Task) settle(outcome models.Outcome, err error) {
	t.mu.Lock()
	t.outcome = outcome
	t.err = err
	t.mu.Unlock()
	close(t.done)
}

// Done is closed once the task has settled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Outcome() models.Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

// Err is the transport error of a failed submission.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task settles or ctx is done. An unsettled task
// reports OutcomePending together with the context error.
func (t *Task) Wait(ctx context.Context) (models.Outcome, error) {
	select {
	case <-t.done:
		return t.Outcome(), nil
	case <-ctx.Done():
		return models.OutcomePending, ctx.Err()
	}
}

func (t *Task) Status() models.SubmissionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := models.SubmissionStatus{
		ID:        t.ID,
		Outcome:   t.outcome,
		StartedAt: t.StartedAt,
	}
	if t.err != nil {
		st.Error = t.err.Error()
	}
	return st
}
