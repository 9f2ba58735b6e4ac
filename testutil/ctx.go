package testutil

import (
	"context"
	"testing"
	"time"
)

// Timeout tiers for test contexts. Use the smallest tier that will not flake
// under CI load.
const (
	WaitShort  = 10 * time.Second
	WaitMedium = 15 * time.Second
	WaitLong   = 25 * time.Second
)

// Intervals for polling or for deliberately slow operations in tests.
const (
	IntervalFast   = 25 * time.Millisecond
	IntervalMedium = 250 * time.Millisecond
	IntervalSlow   = time.Second
)

// Context returns a context that is canceled after dur, or when the test
// finishes, whichever comes first.
func Context(t testing.TB, dur time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), dur)
	t.Cleanup(cancel)
	return ctx
}
