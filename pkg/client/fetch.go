package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

// PageFunc requests one page of a collection.
type PageFunc[T any] func(ctx context.Context, page, perPage int) (pagination.Page[T], error)

// RetryPolicy bounds how hard a single request is retried before giving up.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy tries every request up to three times.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialInterval: 200 * time.Millisecond, MaxInterval: 2 * time.Second}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	// attempts are bounded by count only
	eb.MaxElapsedTime = 0
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
}

// FetchError is returned when a page could not be fetched within the retry budget.
type FetchError struct {
	Page     int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d failed after %d attempt(s): %v", e.Page, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// retry runs op under policy, logging every failed attempt. It returns the number of attempts made.
func retry(ctx context.Context, policy RetryPolicy, logger zerolog.Logger, op func() error) (int, error) {
	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy.backOff(ctx), func(err error, wait time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempts).Dur("retry_in", wait).Msg("request failed, retrying")
	})
	return attempts, err
}

// retryable reports whether another attempt could succeed. Client errors other than
// timeouts and rate limiting will fail the same way again.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.Temporary()
	}
	return true
}

// FetchAll walks a paginated collection from page 1 until meta.total_pages is reached and
// returns every element in server order. Each page is retried according to policy; when a
// page still fails the loop stops with a *FetchError and nothing is returned.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T], perPage int, policy RetryPolicy, logger zerolog.Logger) ([]T, error) {
	if perPage < 1 {
		perPage = pagination.ClientDefaultPerPage
	}
	all := make([]T, 0)
	// one page is assumed until the first response says otherwise
	page, totalPages := 1, 1
	for page <= totalPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var res pagination.Page[T]
		attempts, err := retry(ctx, policy, logger.With().Int("page", page).Logger(), func() error {
			var err error
			res, err = fetch(ctx, page, perPage)
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &FetchError{Page: page, Attempts: attempts, Err: err}
		}
		all = append(all, res.Data...)
		totalPages = res.Meta.TotalPages
		page++
	}
	return all, nil
}
