package models

import "time"

// Outcome is the observable result of a signup submission.
type Outcome string

const (
	OutcomePending          Outcome = "pending"
	OutcomeDispatched       Outcome = "dispatched"
	OutcomeTransportFailure Outcome = "transport_failure"
)

// Settled reports whether the outcome is final.
func (o Outcome) Settled() bool {
	return o == OutcomeDispatched || o == OutcomeTransportFailure
}

// Signup is the JSON body posted to the waitlist sink.
type Signup struct {
	Email string `json:"email"`
}

// SubmissionStatus describes a submission task for API responses.
type SubmissionStatus struct {
	ID        string    `json:"id"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
}
