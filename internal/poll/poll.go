// Package poll implements the lifecycle poller: a generic wait-until-
// terminal engine used by every long-running remote operation.
//
// Polling is strictly read-only. The poller observes externally-owned state
// machines and never mutates remote state; in particular, a timeout or a
// cancelled context stops polling but does not imply any server-side abort.
package poll

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshift-ai/oai-manager/internal/metrics"
	"github.com/openshift-ai/oai-manager/internal/ocm"
	"github.com/openshift-ai/oai-manager/internal/util/retry"
)

// Options configures one wait.
type Options struct {
	// Kind names the operation class for logs and metrics, e.g.
	// "cluster-ready".
	Kind ocm.OperationKind

	// Subject names the concrete target for error messages, e.g.
	// `cluster "demo-1"`.
	Subject string

	Interval time.Duration
	Timeout  time.Duration

	// RetryMaxAttempts and RetryInitialDelay bound the backoff applied to
	// transport failures of a single status fetch. They never extend the
	// overall Timeout.
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration

	Logger zerolog.Logger
}

// Predicates interprets fetched statuses.
type Predicates[T any] struct {
	// Terminal reports whether no further autonomous transition will
	// happen without external action.
	Terminal func(T) bool

	// Success reports whether a terminal status is the desired one.
	Success func(T) bool

	// Reason extracts the remote-reported reason from a terminal failure.
	Reason func(T) string
}

// Await polls fetch on a fixed interval until a terminal status is observed
// or the timeout elapses. It has exactly three outcomes the caller must
// branch on:
//
//   - the terminal success status, with a nil error;
//   - the terminal failure status, with an *ocm.ProvisioningError carrying
//     the remote reason;
//   - the last observed status, with an *ocm.TimeoutError (or ctx.Err() on
//     cancellation) — the remote operation is left untouched.
//
// No further fetch is issued once a terminal status has been observed.
func Await[T any](ctx context.Context, opts Options, fetch func(context.Context) (T, error), p Predicates[T]) (T, error) {
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Second
	}
	if opts.RetryMaxAttempts <= 0 {
		opts.RetryMaxAttempts = 3
	}
	if opts.RetryInitialDelay <= 0 {
		opts.RetryInitialDelay = 1 * time.Second
	}

	var last T
	start := time.Now()
	deadline := start.Add(opts.Timeout)

	for {
		status, err := fetchWithRetry(ctx, opts, fetch)
		if err != nil {
			return last, err
		}
		last = status

		if p.Terminal(status) {
			if p.Success(status) {
				opts.Logger.Info().
					Str("kind", string(opts.Kind)).
					Dur("elapsed", time.Since(start)).
					Msgf("%s reached desired state", opts.Subject)
				return status, nil
			}
			reason := ""
			if p.Reason != nil {
				reason = p.Reason(status)
			}
			return status, &ocm.ProvisioningError{Subject: opts.Subject, Reason: reason}
		}

		if time.Now().Add(opts.Interval).After(deadline) {
			metrics.Operations.WithLabelValues(string(opts.Kind), metrics.ResultTimeout).Inc()
			return last, &ocm.TimeoutError{Subject: opts.Subject, Elapsed: time.Since(start)}
		}

		opts.Logger.Debug().
			Str("kind", string(opts.Kind)).
			Dur("elapsed", time.Since(start)).
			Msgf("%s not terminal yet, polling again in %s", opts.Subject, opts.Interval)

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(opts.Interval):
		}
	}
}

// fetchWithRetry performs one status fetch, absorbing transient transport
// errors with bounded backoff. Authentication failures are fatal by
// contract and are not retried here.
func fetchWithRetry[T any](ctx context.Context, opts Options, fetch func(context.Context) (T, error)) (T, error) {
	var status T
	err := retry.WithExponentialBackoff(ctx, func() error {
		metrics.PollAttempts.WithLabelValues(string(opts.Kind)).Inc()
		s, err := fetch(ctx)
		if err != nil {
			if ocm.IsAuthentication(err) {
				return retry.Fatal(err)
			}
			return err
		}
		status = s
		return nil
	},
		retry.WithMaxRetries(opts.RetryMaxAttempts),
		retry.WithInitialDelay(opts.RetryInitialDelay),
	)
	return status, err
}
