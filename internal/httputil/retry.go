// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limited, 429-aware HTTP doer used for
// upstream APIs that publish request quotas (NCBI E-utilities).
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-provided Retry-After value.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 5

// Doer sends requests through a shared rate limiter and retries HTTP 429
// (Too Many Requests) with exponential backoff.
type Doer struct {
	Client *http.Client

	// Limiter paces every attempt, retries included. Nil means unlimited.
	Limiter *rate.Limiter

	// MaxRetries bounds 429 retries. Zero uses the default (5).
	MaxRetries int
}

// NewDoer returns a Doer allowing perSecond requests per second with a burst
// of one. A non-positive perSecond disables pacing.
func NewDoer(client *http.Client, perSecond float64, maxRetries int) *Doer {
	d := &Doer{Client: client, MaxRetries: maxRetries}
	if perSecond > 0 {
		d.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return d
}

// Do executes req, waiting on the limiter before each attempt.
//
// On 429 the body is drained and closed, then Do sleeps for the Retry-After
// header value when present (capped at one minute) or RetryBaseDelay doubled
// per attempt. If the context is cancelled while waiting Do returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func (d *Doer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := d.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		if d.Limiter != nil {
			if err := d.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		backoff := retryAfter(resp.Header.Get("Retry-After"))
		if backoff == 0 {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter parses a Retry-After header given in seconds. Dates and
// malformed values yield zero.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}
