package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/tilinna/clock"
)

// NewAdvancingClock attaches a virtual clock to a context which advances
// at full speed (not wall speed), and a cancel function to stop it.  The
// clock also stops if the context is canceled.
func NewAdvancingClock(ctx context.Context) (context.Context, func()) {
	clck := clock.NewMock(time.Unix(1, 0))
	ctx = clock.Context(ctx, clck)
	ch := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				return
			case <-ctx.Done():
				return
			default:
				clck.AddNext()
			}
		}
	}()
	return ctx, func() {
		close(ch)
	}
}

// AdvancingContext returns a context with an advancing clock, bounded by a
// wall clock timeout. Both are released when the test ends.
func AdvancingContext(tb testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	tb.Cleanup(cancel)
	ctx, stop := NewAdvancingClock(ctx)
	tb.Cleanup(stop)
	return ctx
}

type invocationContext struct {
	context.Context
	deadline time.Time
}

func (ic invocationContext) Deadline() (time.Time, bool) {
	return ic.deadline, true
}

// WithInvocationDeadline reports a deadline timeout from now on the clock of ctx,
// the way a Lambda invocation context does. Reaching it does not cancel ctx,
// like the runtime freezing the function instead of cancelling it.
func WithInvocationDeadline(ctx context.Context, timeout time.Duration) (context.Context, time.Time) {
	deadline := clock.Now(ctx).Add(timeout)
	return invocationContext{Context: ctx, deadline: deadline}, deadline
}
