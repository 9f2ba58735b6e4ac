package testutil

// RaceEnabled returns whether the race detector is enabled.
// This is a constant at compile time. It should be used to scale down
// workloads that are too heavy to run under the race detector's
// instrumentation, and sparingly at that.
func RaceEnabled() bool {
	return raceEnabled
}
