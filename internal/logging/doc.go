// Package logging provides structured logging for the vitanet CLI using slog.
//
// The package supports a colourised terminal format and JSON, verbosity
// mapping for repeated -v flags, a fan-out handler for --log-file, and
// helpers for carrying a logger in a context.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("bundle created", "path", path)
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	mgr := bundle.NewManager(dbPath, bundle.WithLogger(logging.ForTest(t)))
package logging
