// Package obs wires up the interpreter's structured logging. It has
// nothing to do with the BASIC language itself; it exists so the
// evaluator and command layer can emit debug traces without every
// package reaching for its own ad hoc log.Printf.
//
// Grounded on sqldef-sqldef/util/logutil.go's InitSlog: a single
// process-wide slog.Logger configured once at startup, with the level
// gated by a --trace flag rather than always-on debug output.
package obs

import (
	"log/slog"
	"os"
)

// Init installs the process-wide logger. When trace is true, debug-level
// records are emitted to stderr; otherwise only warnings and above are
// shown.
func Init(trace bool) *slog.Logger {
	level := slog.LevelWarn
	if trace {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
