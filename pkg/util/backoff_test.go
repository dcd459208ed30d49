package util

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilinna/clock"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/internal/fixtures"
)

// Note: This test suite doesn't validate retry-max-time, as that requires a mock clock to be injected, or real time.

func newByViper(policy string, interval, maxTime time.Duration, maxCount int64) (BackoffFactory, error) {
	v := viper.New()
	v.Set(ParamRetryInterval, interval)
	v.Set(ParamRetryMaxCount, maxCount)
	v.Set(ParamRetryMaxTime, maxTime)
	v.Set(ParamRetryPolicy, policy)
	return GetRetryFromViper(v)
}

func TestDisabledRetries(t *testing.T) {
	t.Parallel()
	f, err := newByViper(PolicyDisabled, 10*time.Second, 10*time.Second, 10)
	require.NoError(t, err)
	require.NotNil(t, f)

	bo := f()
	require.Equal(t, backoff.Stop, bo.NextBackOff())
}

func TestConstantInterval(t *testing.T) {
	t.Parallel()
	f, err := newByViper(PolicyConstant, 1*time.Second, 10*time.Second, 0)
	require.NoError(t, err)
	require.NotNil(t, f)

	bo := f()
	for i := 0; i < 10; i++ {
		// Ensure it doesn't start growing
		d := bo.NextBackOff()
		require.LessOrEqual(t, uint64(d), uint64(time.Second*2))
		require.GreaterOrEqual(t, uint64(d), uint64(time.Second/2))
	}
}

func TestConstantIntervalMaxCount(t *testing.T) {
	t.Parallel()
	f, err := newByViper(PolicyConstant, 1*time.Second, 10*time.Second, 10)
	require.NoError(t, err)
	require.NotNil(t, f)

	bo := f()
	for i := 0; i < 10; i++ {
		d := bo.NextBackOff()
		require.NotEqual(t, backoff.Stop, d)
	}
	d := bo.NextBackOff()
	require.Equal(t, backoff.Stop, d)
}

func TestExponentialInterval(t *testing.T) {
	t.Parallel()
	f, err := newByViper(PolicyExponential, 1*time.Second, 10*time.Second, 0)
	require.NoError(t, err)
	require.NotNil(t, f)

	bo := f()
	prevInterval := time.Duration(0)
	for i := 0; i < 10; i++ {
		// Ensure it grows.  We need the scaling factor to account for the randomization in the interval.
		d := bo.NextBackOff()
		require.GreaterOrEqual(t, uint64(d), uint64(prevInterval/2))
		prevInterval = d
	}
}

func TestExponentialIntervalMaxCount(t *testing.T) {
	t.Parallel()
	f, err := newByViper(PolicyExponential, 1*time.Second, 10*time.Second, 10)
	require.NoError(t, err)
	require.NotNil(t, f)

	bo := f()
	prevInterval := time.Duration(0)
	for i := 0; i < 10; i++ {
		// Ensure it grows.  We need the scaling factor to account for the randomization in the interval.
		d := bo.NextBackOff()
		require.GreaterOrEqual(t, uint64(d), uint64(prevInterval/2))
		prevInterval = d
	}
	d := bo.NextBackOff()
	require.Equal(t, backoff.Stop, d)
}

func TestInvalidConfigurations(t *testing.T) {
	tests := []struct {
		interval time.Duration
		maxCount int64
		maxTime  time.Duration
		policy   string
		failure  string
	}{
		{-1 * time.Second, 0, 1 * time.Second, PolicyConstant, ParamRetryInterval},
		{0, 0, 1 * time.Second, PolicyConstant, ParamRetryInterval},
		{1 * time.Second, -1, 1 * time.Second, PolicyConstant, ParamRetryMaxCount},
		{1 * time.Second, 0, -1 * time.Second, PolicyConstant, ParamRetryMaxTime},
		{1 * time.Second, 0, 0, PolicyConstant, ParamRetryMaxTime},
		{1 * time.Second, 1, 1 * time.Second, "invalid", ParamRetryPolicy},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			f, err := newByViper(test.policy, test.interval, test.maxTime, test.maxCount)
			require.Nil(t, f)
			require.Error(t, err)
			require.Contains(t, err.Error(), test.failure)
		})
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	t.Parallel()
	f, err := GetRetryFromViper(viper.New())
	require.NoError(t, err)

	bo := f()
	for i := 0; i < DefaultRetryMaxCount; i++ {
		require.NotEqual(t, backoff.Stop, bo.NextBackOff())
	}
	require.Equal(t, backoff.Stop, bo.NextBackOff())
}

var errRetryable = errors.New("retryable")

func isRetryable(err error) bool {
	return errors.Is(err, errRetryable)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, stop := fixtures.NewAdvancingClock(ctx)
	defer stop()

	calls, notified := 0, 0
	err := Retry(ctx, NewBackoffFactory(1.0, time.Minute, time.Second, 0)(), func() error {
		calls++
		if calls < 3 {
			return errRetryable
		}
		return nil
	}, isRetryable, func(error, time.Duration) {
		notified++
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notified)
}

func TestRetryReturnsNonRetryableImmediately(t *testing.T) {
	t.Parallel()
	permanent := errors.New("permanent")

	calls := 0
	err := Retry(context.Background(), NewBackoffFactory(1.0, time.Minute, time.Second, 0)(), func() error {
		calls++
		return permanent
	}, isRetryable, nil)

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryGivesUpAfterMaxCount(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, stop := fixtures.NewAdvancingClock(ctx)
	defer stop()

	calls := 0
	err := Retry(ctx, NewBackoffFactory(1.0, time.Minute, time.Second, 2)(), func() error {
		calls++
		return errRetryable
	}, isRetryable, nil)

	require.ErrorIs(t, err, errRetryable)
	assert.Equal(t, 3, calls)
}

func TestRetryDisabled(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), NoRetries(), func() error {
		calls++
		return errRetryable
	}, isRetryable, nil)

	require.ErrorIs(t, err, errRetryable)
	assert.Equal(t, 1, calls)
}

func TestRetryHonoursContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, NewBackoffFactory(1.0, time.Minute, time.Hour, 0)(), func() error {
		calls++
		return errRetryable
	}, isRetryable, nil)

	require.ErrorIs(t, err, errRetryable)
	assert.Equal(t, 1, calls)
}

func TestRetryStopsBeforeDeadline(t *testing.T) {
	t.Parallel()
	ctx, deadline := fixtures.WithInvocationDeadline(fixtures.AdvancingContext(t), 3*time.Second)

	calls := 0
	err := Retry(ctx, NewBackoffFactory(1.0, time.Hour, time.Second, 0)(), func() error {
		calls++
		return errRetryable
	}, isRetryable, nil)

	require.ErrorIs(t, err, errRetryable)
	assert.Greater(t, calls, 1)
	assert.False(t, clock.Now(ctx).After(deadline), "Must not wait past the deadline")
}
