// Package landing holds the interactive state of one visitor's landing page:
// the email field, the signup submission with its timed confirmation, and the
// video and privacy toggles.
package landing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/logging"
	"github.com/thinkai/waitlist/internal/media"
	"github.com/thinkai/waitlist/internal/metrics"
	"github.com/thinkai/waitlist/internal/models"
	"github.com/thinkai/waitlist/internal/waitlist"
)

// AlertRetry is shown when a signup could not be dispatched.
const AlertRetry = "Something went wrong. Please try again."

// DefaultResetAfter is how long the confirmation stays up.
const DefaultResetAfter = 5 * time.Second

var (
	ErrSubmitInFlight = errors.New("landing: a submission is already in flight")
	ErrFormDisabled   = errors.New("landing: form is disabled")
	ErrInvalidEmail   = errors.New("landing: invalid email address")
	ErrClosed         = errors.New("landing: controller closed")
)

type Options struct {
	Sink       waitlist.Sink
	Player     media.Player
	Clock      Clock
	ResetAfter time.Duration
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
}

// Controller owns one page's state. All transitions run under mu, so
// concurrent requests for the same visitor observe them one at a time.
type Controller struct {
	sink       waitlist.Sink
	player     media.Player
	clock      Clock
	resetAfter time.Duration
	log        *zap.Logger
	metrics    *metrics.Recorder

	mu    sync.Mutex
	state models.PageState
	task  *Task
	reset Timer
	// resetAt is when the showing confirmation ends.
	resetAt time.Time
	cycle   uint64
	closed  bool
}

func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.ResetAfter <= 0 {
		opts.ResetAfter = DefaultResetAfter
	}
	return &Controller{
		sink:       opts.Sink,
		player:     opts.Player,
		clock:      opts.Clock,
		resetAfter: opts.ResetAfter,
		log:        logging.Component(opts.Logger, "landing"),
		metrics:    opts.Metrics,
		state: models.PageState{
			IsPlaying: true,
			IsLocked:  true,
		},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() models.PageState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TakeAlert returns the pending alert and clears it, so each alert is shown once.
func (c *Controller) TakeAlert() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.state.Alert
	c.state.Alert = ""
	return msg
}

// SetEmail records the input value. Edits are rejected while the form is disabled.
func (c *Controller) SetEmail(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state.FormDisabled() {
		return ErrFormDisabled
	}
	c.state.Email = value
	return nil
}

// Submit starts a signup for email and returns its task. A call made while a
// submission is in flight, or while the confirmation is showing, has no effect.
//
// The outbound call runs detached from ctx's cancellation: an in-flight
// submission cannot be cancelled, it only ends when the sink returns.
func (c *Controller) Submit(ctx context.Context, email string) (*Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return nil, ErrClosed
	case c.state.IsLoading:
		c.metrics.SubmitIgnored("in_flight")
		return nil, ErrSubmitInFlight
	case c.state.IsSubmitted:
		c.metrics.SubmitIgnored("disabled")
		return nil, ErrFormDisabled
	}

	c.state.Email = email
	if !ValidEmail(email) {
		c.metrics.SubmitIgnored("invalid_email")
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	c.state.IsLoading = true
	task := newTask(c.clock.Now())
	c.task = task
	c.metrics.SubmissionStarted()

	go c.dispatch(context.WithoutCancel(ctx), task, strings.TrimSpace(email))
	return task, nil
}

func (c *Controller) dispatch(ctx context.Context, task *Task, email string) {
	err := errors.New("landing: dispatch aborted")
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("landing: sink panicked: %v", r)
		}
		c.finish(task, err)
	}()
	if c.sink == nil {
		err = errors.New("landing: no waitlist sink configured")
		return
	}
	err = c.sink.Join(ctx, email)
}

func (c *Controller) finish(task *Task, err error) {
	outcome := models.OutcomeDispatched
	if err != nil {
		outcome = models.OutcomeTransportFailure
	}

	c.mu.Lock()
	defer func() {
		c.state.IsLoading = false
		c.mu.Unlock()
		c.metrics.SubmissionFinished()
		c.metrics.Submission(string(outcome))
		task.settle(outcome, err)
	}()

	if c.closed {
		return
	}

	if err != nil {
		c.log.Error("signup submission failed", zap.String("task", task.ID), zap.Error(err))
		c.state.Alert = AlertRetry
		return
	}

	c.state.IsSubmitted = true
	c.state.Email = ""
	c.cycle++
	cycle := c.cycle
	c.resetAt = c.clock.Now().Add(c.resetAfter)
	c.reset = c.clock.AfterFunc(c.resetAfter, func() { c.endConfirmation(cycle) })
	c.log.Info("signup dispatched", zap.String("task", task.ID))
}

// endConfirmation clears the submitted flag for the cycle that scheduled it.
func (c *Controller) endConfirmation(cycle uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || cycle != c.cycle {
		return
	}
	c.state.IsSubmitted = false
	c.reset = nil
	c.resetAt = time.Time{}
}

// ConfirmationRemaining is how long the showing confirmation has left, or zero
// when none is showing.
func (c *Controller) ConfirmationRemaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsSubmitted || c.resetAt.IsZero() {
		return 0
	}
	if left := c.resetAt.Sub(c.clock.Now()); left > 0 {
		return left
	}
	return 0
}

// Task returns the most recent submission, or nil before the first one.
func (c *Controller) Task() *Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.task
}

// ToggleVideo flips the playing flag and commands the media element, if any,
// to match it.
func (c *Controller) ToggleVideo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state.IsPlaying
	}
	c.state.IsPlaying = !c.state.IsPlaying
	c.metrics.Toggle("video")
	if c.player == nil {
		return c.state.IsPlaying
	}

	var err error
	if c.state.IsPlaying {
		err = c.player.Play()
	} else {
		err = c.player.Pause()
	}
	if err != nil {
		c.log.Debug("media command failed", zap.Bool("playing", c.state.IsPlaying), zap.Error(err))
	}
	return c.state.IsPlaying
}

// ToggleLock flips the cosmetic privacy lock.
func (c *Controller) ToggleLock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state.IsLocked
	}
	c.state.IsLocked = !c.state.IsLocked
	c.metrics.Toggle("lock")
	return c.state.IsLocked
}

// Close tears the controller down. The pending confirmation reset is
// cancelled and a submission still in flight settles without touching state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	c.resetAt = time.Time{}
}
