// Package waitlist posts signups to the third-party collection endpoint.
//
// The endpoint is treated as an opaque sink: the response status and body are
// never inspected, so a reachable endpoint that rejects the payload looks the
// same as one that accepts it. Only failures below the application layer are
// reported.
package waitlist

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/logging"
	"github.com/thinkai/waitlist/internal/models"
)

// Sink accepts a waitlist signup.
type Sink interface {
	Join(ctx context.Context, email string) error
}

// TransportError reports that a signup could not be dispatched.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("waitlist: dispatch to %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Config struct {
	EndpointURL string
	Timeout     time.Duration
}

// Client is the HTTP implementation of Sink.
type Client struct {
	endpoint string
	http     *resty.Client
	log      *zap.Logger
}

// DefaultTimeout bounds a dispatch when Config.Timeout is not positive.
const DefaultTimeout = 10 * time.Second

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	return &Client{
		endpoint: cfg.EndpointURL,
		http:     rc,
		log:      logging.Component(log, "waitlist"),
	}
}

// Join posts {"email": email} to the endpoint. The returned error is always a
// *TransportError.
func (c *Client) Join(ctx context.Context, email string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.Signup{Email: email}).
		SetDoNotParseResponse(true).
		Post(c.endpoint)
	if err != nil {
		c.log.Warn("signup dispatch failed", zap.Error(err))
		return &TransportError{Endpoint: c.endpoint, Err: err}
	}

	body := resp.RawBody()
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
		body.Close()
	}
	c.log.Debug("signup dispatched", zap.Int("status", resp.StatusCode()))
	return nil
}
