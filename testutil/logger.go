package testutil

import (
	"testing"

	"cdr.dev/slog/v3"
	"cdr.dev/slog/v3/sloggers/slogtest"
)

// Logger returns a "standard" testing logger, leveled at debug so that
// everything a component logs shows up in -v output.
func Logger(t testing.TB) slog.Logger {
	return slogtest.Make(t, nil).Leveled(slog.LevelDebug)
}
