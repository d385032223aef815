package landingtest

import (
	"context"
	"errors"
	"sync"
)

// ErrUnreachable is what a failing Sink returns.
var ErrUnreachable = errors.New("dial tcp: connection refused")

// Sink records signups. When Gate is set, Join blocks until it is closed,
// which keeps a submission in flight for as long as a test needs.
type Sink struct {
	Gate chan struct{}
	Fail bool

	mu     sync.Mutex
	emails []string
}

func (s *Sink) Join(ctx context.Context, email string) error {
	s.mu.Lock()
	s.emails = append(s.emails, email)
	gate, fail := s.Gate, s.Fail
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return ErrUnreachable
	}
	return nil
}

// Emails returns every email Join received, in order.
func (s *Sink) Emails() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.emails...)
}

func (s *Sink) SetFail(fail bool) {
	s.mu.Lock()
	s.Fail = fail
	s.mu.Unlock()
}
