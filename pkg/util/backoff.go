package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/viper"
	"github.com/tilinna/clock"
)

const (
	ParamRetryInterval = "retry-interval"  // constant
	ParamRetryMaxCount = "retry-max-count" // constant + exponential
	ParamRetryMaxTime  = "retry-max-time"  // constant + exponential
	ParamRetryPolicy   = "retry-policy"

	DefaultRetryInterval = 500 * time.Millisecond // constant
	DefaultRetryMaxCount = 5                      // constant + exponential
	DefaultRetryMaxTime  = 4 * time.Second        // constant + exponential
	DefaultRetryPolicy   = PolicyExponential

	PolicyConstant    = "constant"
	PolicyDisabled    = "disabled"
	PolicyExponential = "exponential"
)

type BackoffFactory func() backoff.BackOff

// NewBackoffFactory creates a new BackoffFactory based on a backoff.ExponentialBackoff
//
// A Multiplier of 1.0 gives a constant interval that still honours randomization and MaxElapsedTime.
func NewBackoffFactory(multiplier float64, maxElapsedTime, interval time.Duration, maxRetries uint64) BackoffFactory {
	return func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.Multiplier = multiplier
		bo.MaxElapsedTime = maxElapsedTime
		bo.InitialInterval = interval
		bo.Reset() // Reset is required to make the InitialInterval change take effect.
		if maxRetries == 0 {
			return bo
		}
		return backoff.WithMaxRetries(bo, maxRetries)
	}
}

// NoRetries never retries.
func NoRetries() backoff.BackOff {
	return &backoff.StopBackOff{}
}

// AddRetryFlags registers the retry parameters with their defaults.
func AddRetryFlags(v *viper.Viper) {
	v.SetDefault(ParamRetryInterval, DefaultRetryInterval)
	v.SetDefault(ParamRetryMaxCount, DefaultRetryMaxCount)
	v.SetDefault(ParamRetryMaxTime, DefaultRetryMaxTime)
	v.SetDefault(ParamRetryPolicy, DefaultRetryPolicy)
}

func GetRetryFromViper(v *viper.Viper) (BackoffFactory, error) {
	AddRetryFlags(v)

	retryInterval := v.GetDuration(ParamRetryInterval) // constant
	retryMaxCount := v.GetInt64(ParamRetryMaxCount)    // constant + exponential
	retryMaxTime := v.GetDuration(ParamRetryMaxTime)   // constant + exponential
	retryPolicy := v.GetString(ParamRetryPolicy)

	if retryInterval <= 0 {
		return nil, errors.New(ParamRetryInterval + " must be positive")
	}

	if retryMaxCount < 0 {
		return nil, errors.New(ParamRetryMaxCount + " must be zero or positive")
	}

	if retryMaxTime <= 0 {
		return nil, errors.New(ParamRetryMaxTime + " must be positive")
	}

	switch retryPolicy {
	case PolicyDisabled:
		return NoRetries, nil
	case PolicyExponential:
		return NewBackoffFactory(backoff.DefaultMultiplier, retryMaxTime, retryInterval, uint64(retryMaxCount)), nil
	case PolicyConstant:
		return NewBackoffFactory(1.0, retryMaxTime, retryInterval, uint64(retryMaxCount)), nil
	default:
		return nil, fmt.Errorf("%s (%s) not one of %s, %s, or %s", ParamRetryPolicy, retryPolicy, PolicyDisabled, PolicyConstant, PolicyExponential)
	}
}

// Retry calls op until it succeeds, returns an error that retryable rejects, the backoff gives up, or ctx is done.
// A wait that would end past the deadline of ctx is not started.
// The waits are taken from the clock attached to ctx. notify, if not nil, is called before each wait.
func Retry(ctx context.Context, bo backoff.BackOff, op func() error, retryable func(error) bool, notify func(error, time.Duration)) error {
	for {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}

		next := bo.NextBackOff()
		if next == backoff.Stop {
			return err
		}
		if deadline, ok := ctx.Deadline(); ok && clock.Until(ctx, deadline) < next {
			return err
		}
		if notify != nil {
			notify(err, next)
		}

		timer := clock.NewTimer(ctx, next)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
