package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-ai/oai-manager/internal/metrics"
	"github.com/openshift-ai/oai-manager/internal/ocm"
)

type fakeStatus struct {
	state  string
	reason string
}

func fastOptions(timeout time.Duration) Options {
	return Options{
		Kind:              ocm.OpClusterCreate,
		Subject:           `cluster "test"`,
		Interval:          time.Millisecond,
		Timeout:           timeout,
		RetryMaxAttempts:  2,
		RetryInitialDelay: time.Millisecond,
		Logger:            zerolog.Nop(),
	}
}

func predicates() Predicates[*fakeStatus] {
	return Predicates[*fakeStatus]{
		Terminal: func(s *fakeStatus) bool { return s.state == "ready" || s.state == "error" },
		Success:  func(s *fakeStatus) bool { return s.state == "ready" },
		Reason:   func(s *fakeStatus) string { return s.reason },
	}
}

// scriptedFetch returns the given statuses in order, sticking on the last.
func scriptedFetch(statuses ...*fakeStatus) (func(context.Context) (*fakeStatus, error), *int) {
	calls := new(int)
	return func(context.Context) (*fakeStatus, error) {
		s := statuses[min(*calls, len(statuses)-1)]
		*calls++
		return s, nil
	}, calls
}

func TestAwait_SuccessAfterTransitions(t *testing.T) {
	t.Parallel()

	fetch, calls := scriptedFetch(
		&fakeStatus{state: "requested"},
		&fakeStatus{state: "installing"},
		&fakeStatus{state: "ready"},
	)

	status, err := Await(context.Background(), fastOptions(time.Minute), fetch, predicates())
	require.NoError(t, err)
	assert.Equal(t, "ready", status.state)
	assert.Equal(t, 3, *calls, "no fetch may follow a terminal status")
}

func TestAwait_TerminalFailure(t *testing.T) {
	t.Parallel()

	fetch, calls := scriptedFetch(
		&fakeStatus{state: "installing"},
		&fakeStatus{state: "error", reason: "quota exceeded"},
	)

	status, err := Await(context.Background(), fastOptions(time.Minute), fetch, predicates())
	require.Error(t, err)
	assert.True(t, ocm.IsProvisioning(err))
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, "error", status.state)
	assert.Equal(t, 2, *calls)
}

func TestAwait_Timeout(t *testing.T) {
	t.Parallel()

	fetch, _ := scriptedFetch(&fakeStatus{state: "installing"})

	timeouts := metrics.Operations.WithLabelValues(string(ocm.OpClusterCreate), metrics.ResultTimeout)
	before := testutil.ToFloat64(timeouts)

	status, err := Await(context.Background(), fastOptions(10*time.Millisecond), fetch, predicates())
	require.Error(t, err)
	assert.True(t, ocm.IsTimeout(err))
	assert.Equal(t, before+1, testutil.ToFloat64(timeouts))

	var te *ocm.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Positive(t, te.Elapsed)

	// The last observed status comes back with the timeout.
	require.NotNil(t, status)
	assert.Equal(t, "installing", status.state)
}

func TestAwait_TransientFetchErrorsAbsorbed(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(context.Context) (*fakeStatus, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return &fakeStatus{state: "ready"}, nil
	}

	status, err := Await(context.Background(), fastOptions(time.Minute), fetch, predicates())
	require.NoError(t, err)
	assert.Equal(t, "ready", status.state)
	assert.Equal(t, 2, calls)
}

func TestAwait_PersistentFetchErrorSurfaces(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("connection reset")
	fetch := func(context.Context) (*fakeStatus, error) { return nil, sentinel }

	_, err := Await(context.Background(), fastOptions(time.Minute), fetch, predicates())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestAwait_AuthenticationErrorNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(context.Context) (*fakeStatus, error) {
		calls++
		return nil, &ocm.AuthenticationError{Reason: "token revoked"}
	}

	_, err := Await(context.Background(), fastOptions(time.Minute), fetch, predicates())
	require.Error(t, err)
	assert.True(t, ocm.IsAuthentication(err))
	assert.Equal(t, 1, calls)
}

func TestAwait_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	fetch := func(context.Context) (*fakeStatus, error) {
		cancel()
		return &fakeStatus{state: "installing"}, nil
	}

	opts := fastOptions(24 * time.Hour)
	opts.Interval = time.Hour

	_, err := Await(ctx, opts, fetch, predicates())
	require.ErrorIs(t, err, context.Canceled)
}
