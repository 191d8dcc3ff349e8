package consult

import (
	"context"
	"time"
)

// Submitter is the outbound port the flow hands a validated consultation to.
// A backend client is a drop-in replacement for the simulated default.
type Submitter interface {
	Submit(ctx context.Context, rec *Record) error
}

// SimulatedSubmitter models the backend round trip with a fixed delay. The
// delay is deliberately not cancelable, matching the original flow.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(_ context.Context, _ *Record) error {
	time.Sleep(s.Delay)
	return nil
}
