package collector

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
)

const (
	DefaultRetryDelay = 3 * time.Second
	DefaultMaxRetries = 10
)

// RetryPolicy bounds how long a 202 "still computing" response is waited on
type RetryPolicy struct {
	Delay      time.Duration
	MaxRetries int
}

// DefaultRetryPolicy returns the 3s / 10 retries policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delay:      DefaultRetryDelay,
		MaxRetries: DefaultMaxRetries,
	}
}

// Retrier re-issues a request while the server answers 202
type Retrier struct {
	requester Requester
	policy    RetryPolicy
	wait      func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a new retrier
func NewRetrier(requester Requester, policy RetryPolicy) *Retrier {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &Retrier{
		requester: requester,
		policy:    policy,
		wait:      sleepContext,
	}
}

// Do issues req until it returns 200.
//
// Every 202 is followed by the policy delay and another attempt. Once
// MaxRetries retries have been spent a TIMEOUT error is returned. Any other
// status fails immediately with REQUEST_FAILED.
func (r *Retrier) Do(ctx context.Context, req Request) (*Response, error) {
	logger := logging.From(ctx)

	for retries := 0; ; retries++ {
		resp, err := r.requester.Get(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, apperrors.NewRequestFailedError(req.Location, 0, err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return resp, nil

		case http.StatusAccepted:
			if retries >= r.policy.MaxRetries {
				timeout := apperrors.NewTimeoutError(req.Location, retries)
				timeout.Err = apperrors.NewTransientUnavailableError(req.Location)
				return nil, timeout
			}
			logger.Info("Data is being generated, retrying",
				"location", req.Location,
				"retry", retries+1,
				"delay", r.policy.Delay,
			)
			if err := r.wait(ctx, r.policy.Delay); err != nil {
				return nil, err
			}

		default:
			return nil, apperrors.NewRequestFailedError(req.Location, resp.StatusCode, nil)
		}
	}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
