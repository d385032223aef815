package landing_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/landing"
	"github.com/thinkai/waitlist/internal/landing/landingtest"
	"github.com/thinkai/waitlist/internal/media"
	"github.com/thinkai/waitlist/internal/models"
	"github.com/thinkai/waitlist/internal/waitlist"
)

func newController(sink waitlist.Sink, clock landing.Clock, player media.Player) *landing.Controller {
	return landing.New(landing.Options{
		Sink:       sink,
		Player:     player,
		Clock:      clock,
		ResetAfter: 5 * time.Second,
		Logger:     zap.NewNop(),
	})
}

func wait(t *testing.T, task *landing.Task) models.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	outcome, err := task.Wait(ctx)
	require.NoError(t, err, "task did not settle")
	return outcome
}

func TestInitialState(t *testing.T) {
	c := newController(&landingtest.Sink{}, landingtest.NewManualClock(), nil)
	assert.Equal(t, models.PageState{IsPlaying: true, IsLocked: true}, c.Snapshot())
	assert.Nil(t, c.Task())
}

func TestSubmitSuccessAndTimedReset(t *testing.T) {
	sink := &landingtest.Sink{}
	clock := landingtest.NewManualClock()
	c := newController(sink, clock, nil)

	require.NoError(t, c.SetEmail("a@b.com"))
	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDispatched, wait(t, task))

	assert.Equal(t, []string{"a@b.com"}, sink.Emails())
	st := c.Snapshot()
	assert.Equal(t, "", st.Email)
	assert.True(t, st.IsSubmitted)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Alert)

	assert.Equal(t, 5*time.Second, c.ConfirmationRemaining())

	clock.Advance(4999 * time.Millisecond)
	assert.True(t, c.Snapshot().IsSubmitted)
	assert.Equal(t, time.Millisecond, c.ConfirmationRemaining())

	clock.Advance(time.Millisecond)
	assert.False(t, c.Snapshot().IsSubmitted)
	assert.Zero(t, c.ConfirmationRemaining())
	assert.Equal(t, 0, clock.Pending())
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	sink := &landingtest.Sink{Gate: gate}
	c := newController(sink, landingtest.NewManualClock(), nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)

	st := c.Snapshot()
	assert.True(t, st.IsLoading)
	assert.True(t, st.FormDisabled())
	assert.Equal(t, "Joining...", st.SubmitLabel())
	assert.Equal(t, models.OutcomePending, task.Outcome())

	_, err = c.Submit(context.Background(), "other@b.com")
	assert.ErrorIs(t, err, landing.ErrSubmitInFlight)
	assert.ErrorIs(t, c.SetEmail("x"), landing.ErrFormDisabled)

	// Toggles stay responsive while the request is pending.
	assert.False(t, c.ToggleLock())
	assert.False(t, c.ToggleVideo())

	close(gate)
	wait(t, task)
	assert.Len(t, sink.Emails(), 1)
	assert.Equal(t, "Added", c.Snapshot().SubmitLabel())
}

func TestConcurrentSubmitsIssueOnePost(t *testing.T) {
	gate := make(chan struct{})
	sink := &landingtest.Sink{Gate: gate}
	c := newController(sink, landingtest.NewManualClock(), nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started []*landing.Task
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if task, err := c.Submit(context.Background(), "a@b.com"); err == nil {
				mu.Lock()
				started = append(started, task)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(gate)

	require.Len(t, started, 1)
	wait(t, started[0])
	assert.Equal(t, []string{"a@b.com"}, sink.Emails())
}

func TestSubmitIgnoredDuringConfirmation(t *testing.T) {
	sink := &landingtest.Sink{}
	clock := landingtest.NewManualClock()
	c := newController(sink, clock, nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	wait(t, task)

	_, err = c.Submit(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, landing.ErrFormDisabled)
	assert.ErrorIs(t, c.SetEmail("typing"), landing.ErrFormDisabled)
	assert.Len(t, sink.Emails(), 1)
}

func TestTransportFailure(t *testing.T) {
	sink := &landingtest.Sink{Fail: true}
	clock := landingtest.NewManualClock()
	c := newController(sink, clock, nil)

	require.NoError(t, c.SetEmail("a@b.com"))
	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTransportFailure, wait(t, task))
	assert.ErrorIs(t, task.Err(), landingtest.ErrUnreachable)
	assert.Equal(t, string(models.OutcomeTransportFailure), string(task.Status().Outcome))
	assert.NotEmpty(t, task.Status().Error)

	st := c.Snapshot()
	assert.False(t, st.IsSubmitted)
	assert.False(t, st.IsLoading)
	assert.Equal(t, "a@b.com", st.Email)
	assert.Equal(t, landing.AlertRetry, st.Alert)
	assert.Equal(t, 0, clock.Pending())

	assert.Equal(t, landing.AlertRetry, c.TakeAlert())
	assert.Empty(t, c.TakeAlert())

	// The preserved email can be retried straight away.
	sink.SetFail(false)
	task, err = c.Submit(context.Background(), st.Email)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDispatched, wait(t, task))
	assert.Equal(t, []string{"a@b.com", "a@b.com"}, sink.Emails())
}

type panickingSink struct{}

func (panickingSink) Join(context.Context, string) error { panic("boom") }

func TestSinkPanicIsTransportFailure(t *testing.T) {
	c := newController(panickingSink{}, landingtest.NewManualClock(), nil)
	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTransportFailure, wait(t, task))
	assert.False(t, c.Snapshot().IsLoading)
	assert.Equal(t, landing.AlertRetry, c.Snapshot().Alert)
}

func TestMissingSinkIsTransportFailure(t *testing.T) {
	c := newController(nil, landingtest.NewManualClock(), nil)
	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTransportFailure, wait(t, task))
}

func TestInvalidEmailNeverDispatches(t *testing.T) {
	sink := &landingtest.Sink{}
	c := newController(sink, landingtest.NewManualClock(), nil)

	for _, email := range []string{"", "plain", "a@", "@b.com", "a b@c.com", "a@b..com"} {
		_, err := c.Submit(context.Background(), email)
		assert.ErrorIs(t, err, landing.ErrInvalidEmail, email)
		assert.False(t, c.Snapshot().IsLoading)
	}
	assert.Empty(t, sink.Emails())
	assert.Nil(t, c.Task())
}

func TestNewCycleAfterWindow(t *testing.T) {
	sink := &landingtest.Sink{}
	clock := landingtest.NewManualClock()
	c := newController(sink, clock, nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	wait(t, task)
	clock.Advance(5 * time.Second)
	require.False(t, c.Snapshot().IsSubmitted)

	task, err = c.Submit(context.Background(), "c@d.com")
	require.NoError(t, err)
	wait(t, task)

	clock.Advance(3 * time.Second)
	assert.True(t, c.Snapshot().IsSubmitted, "second cycle gets its own full window")
	clock.Advance(2 * time.Second)
	assert.False(t, c.Snapshot().IsSubmitted)
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, sink.Emails())
}

func TestCloseCancelsReset(t *testing.T) {
	clock := landingtest.NewManualClock()
	c := newController(&landingtest.Sink{}, clock, nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	wait(t, task)
	require.Equal(t, 1, clock.Pending())

	c.Close()
	assert.Equal(t, 0, clock.Pending())
	clock.Advance(10 * time.Second)
	assert.True(t, c.Snapshot().IsSubmitted, "no mutation after teardown")
	assert.Zero(t, c.ConfirmationRemaining())

	_, err = c.Submit(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, landing.ErrClosed)
	assert.ErrorIs(t, c.SetEmail("x"), landing.ErrClosed)
	c.Close()
}

func TestCloseDuringFlight(t *testing.T) {
	gate := make(chan struct{})
	clock := landingtest.NewManualClock()
	c := newController(&landingtest.Sink{Gate: gate}, clock, nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	c.Close()
	close(gate)

	assert.Equal(t, models.OutcomeDispatched, wait(t, task))
	assert.False(t, c.Snapshot().IsSubmitted)
	assert.Equal(t, 0, clock.Pending())
}

func TestSubmitSurvivesRequestCancel(t *testing.T) {
	gate := make(chan struct{})
	sink := &landingtest.Sink{Gate: gate}
	c := newController(sink, landingtest.NewManualClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	task, err := c.Submit(ctx, "a@b.com")
	require.NoError(t, err)
	cancel()
	close(gate)

	assert.Equal(t, models.OutcomeDispatched, wait(t, task))
}

func TestToggleLockTwice(t *testing.T) {
	c := newController(&landingtest.Sink{}, landingtest.NewManualClock(), nil)
	before := c.Snapshot()

	assert.False(t, c.ToggleLock())
	mid := c.Snapshot()
	assert.Equal(t, "System Open", mid.LockLabel())
	assert.Equal(t, "🔓", mid.LockIcon())

	assert.True(t, c.ToggleLock())
	after := c.Snapshot()
	assert.Equal(t, before.LockLabel(), after.LockLabel())
	assert.Equal(t, before.LockIcon(), after.LockIcon())
	assert.Equal(t, "Privacy Locked", after.LockLabel())
}

func TestToggleVideoWithoutElement(t *testing.T) {
	c := newController(&landingtest.Sink{}, landingtest.NewManualClock(), nil)

	assert.NotPanics(t, func() {
		assert.False(t, c.ToggleVideo())
		assert.True(t, c.ToggleVideo())
	})
	assert.True(t, c.Snapshot().IsPlaying)
}

func TestToggleVideoCommandsElement(t *testing.T) {
	el := media.NewElement("/static/demo.mp4", true)
	c := newController(&landingtest.Sink{}, landingtest.NewManualClock(), el)

	assert.False(t, c.ToggleVideo())
	assert.False(t, el.Playing())
	assert.True(t, c.ToggleVideo())
	assert.True(t, el.Playing())
}

func TestToggleVideoElementError(t *testing.T) {
	el := media.NewElement("", false)
	c := newController(&landingtest.Sink{}, landingtest.NewManualClock(), el)

	assert.False(t, c.ToggleVideo())
	assert.True(t, c.ToggleVideo(), "play error does not block the toggle")
	assert.False(t, el.Playing())
}

func TestScenarioLabels(t *testing.T) {
	gate := make(chan struct{})
	sink := &landingtest.Sink{Gate: gate}
	clock := landingtest.NewManualClock()
	c := newController(sink, clock, nil)

	require.NoError(t, c.SetEmail("a@b.com"))
	assert.Equal(t, "Join", c.Snapshot().SubmitLabel())

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Joining...", c.Snapshot().SubmitLabel())

	close(gate)
	wait(t, task)
	assert.Equal(t, "Added", c.Snapshot().SubmitLabel())

	clock.Advance(5 * time.Second)
	assert.Equal(t, "Join", c.Snapshot().SubmitLabel())
	assert.Equal(t, []string{"a@b.com"}, sink.Emails())
}

// A sink that rejects the payload is indistinguishable from one that accepts
// it: the response is never inspected, so the page reports success.
func TestOpaqueSinkRejectionLooksLikeSuccess(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		http.Error(w, "rejected", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := waitlist.NewClient(waitlist.Config{EndpointURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	c := newController(client, landingtest.NewManualClock(), nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDispatched, wait(t, task))
	assert.True(t, c.Snapshot().IsSubmitted)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 1)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &got))
	assert.Equal(t, map[string]string{"email": "a@b.com"}, got)
}

func TestEachValidEmailPostsItsBody(t *testing.T) {
	emails := []string{
		"a@b.com",
		"first.last+tag@sub.example.org",
		"x_y-z@host",
		"o'neil@example.ie",
		"UPPER@EXAMPLE.COM",
	}
	for _, email := range emails {
		sink := &landingtest.Sink{}
		clock := landingtest.NewManualClock()
		c := newController(sink, clock, nil)

		task, err := c.Submit(context.Background(), email)
		require.NoError(t, err, email)
		wait(t, task)
		assert.Equal(t, []string{email}, sink.Emails())
		c.Close()
	}
}

func TestSilentSinkSettlesAtClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	sink := waitlist.NewClient(waitlist.Config{EndpointURL: srv.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())
	c := newController(sink, landingtest.NewManualClock(), nil)

	task, err := c.Submit(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTransportFailure, wait(t, task))

	st := c.Snapshot()
	assert.False(t, st.IsLoading)
	assert.False(t, st.FormDisabled())
	assert.Equal(t, "a@b.com", st.Email)
}
