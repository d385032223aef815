// Package session keeps one landing controller per visitor, keyed by a
// signed cookie, and tears idle visitors down.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/landing"
	"github.com/thinkai/waitlist/internal/logging"
	"github.com/thinkai/waitlist/internal/metrics"
)

// Factory builds the controller for a new visitor.
type Factory func(visitorID string) *landing.Controller

// Visitor is a resolved visitor session.
type Visitor struct {
	ID         string
	Token      string
	Controller *landing.Controller
	// Issued is set when Token is new and must be sent back to the client.
	Issued bool
}

type entry struct {
	controller *landing.Controller
	lastSeen   time.Time
}

type Options struct {
	Signer     *Signer
	Factory    Factory
	IdleTTL    time.Duration
	SweepEvery time.Duration
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
}

type Registry struct {
	signer     *Signer
	factory    Factory
	idleTTL    time.Duration
	sweepEvery time.Duration
	log        *zap.Logger
	metrics    *metrics.Recorder
	now        func() time.Time

	mu       sync.Mutex
	visitors map[string]*entry
	cron     *cron.Cron
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		signer:     opts.Signer,
		factory:    opts.Factory,
		idleTTL:    opts.IdleTTL,
		sweepEvery: opts.SweepEvery,
		log:        logging.Component(opts.Logger, "session"),
		metrics:    opts.Metrics,
		now:        time.Now,
		visitors:   make(map[string]*entry),
	}
}

// Resolve returns the visitor for token. A missing, tampered or expired token
// starts a new visitor; a valid token whose visitor was swept gets a fresh
// controller under the same id.
func (r *Registry) Resolve(token string) (*Visitor, error) {
	if token != "" {
		claims, err := r.signer.Validate(token)
		if err == nil {
			return &Visitor{ID: claims.VisitorID, Token: token, Controller: r.touch(claims.VisitorID)}, nil
		}
		r.log.Debug("discarding visitor token", zap.Error(err))
	}

	id := uuid.NewString()
	signed, err := r.signer.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("issue visitor token: %w", err)
	}
	return &Visitor{ID: id, Token: signed, Controller: r.touch(id), Issued: true}, nil
}

func (r *Registry) touch(id string) *landing.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.visitors[id]
	if !ok {
		e = &entry{controller: r.factory(id)}
		r.visitors[id] = e
		r.metrics.VisitorAdded()
		r.log.Debug("visitor started", zap.String("visitor", id))
	}
	e.lastSeen = r.now()
	return e.controller
}

// Len is the number of visitors held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Sweep closes and forgets visitors idle for longer than the idle TTL.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*landing.Controller
	for id, e := range r.visitors {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.controller)
			delete(r.visitors, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	r.metrics.VisitorsEvicted(len(stale))
	if len(stale) > 0 {
		r.log.Info("swept idle visitors", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Start runs Sweep on the configured interval.
func (r *Registry) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil || r.sweepEvery <= 0 {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc("@every "+r.sweepEvery.String(), func() { r.Sweep() }); err != nil {
		return fmt.Errorf("schedule visitor sweep: %w", err)
	}
	c.Start()
	r.cron = c
	r.log.Info("visitor sweeper started", zap.Duration("every", r.sweepEvery), zap.Duration("idle_ttl", r.idleTTL))
	return nil
}

// Stop halts the sweeper and closes every controller.
func (r *Registry) Stop(ctx context.Context) {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	visitors := r.visitors
	r.visitors = make(map[string]*entry)
	r.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
			r.log.Warn("visitor sweeper stop timeout")
		}
	}
	for _, e := range visitors {
		e.controller.Close()
	}
	r.metrics.VisitorsEvicted(len(visitors))
}
