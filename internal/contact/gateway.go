package contact

import (
	"context"
	"time"
)

// DefaultSimulatedDelay matches the latency of the original form.
const DefaultSimulatedDelay = 1500 * time.Millisecond

// SimulatedGateway stands in for a real delivery backend: it waits Delay and
// then reports only validation results. It performs no I/O.
type SimulatedGateway struct {
	Delay time.Duration
}

// Submit waits for the configured delay, then validates the snapshot.
func (g SimulatedGateway) Submit(ctx context.Context, sub Submission) error {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return Validate(sub.Fields)
}

// Validating runs Validate before handing the submission to next, so real
// backends keep the same failure semantics as the simulation.
func Validating(next Gateway) Gateway {
	return GatewayFunc(func(ctx context.Context, sub Submission) error {
		if err := Validate(sub.Fields); err != nil {
			return err
		}
		return next.Submit(ctx, sub)
	})
}
