// Package errors provides error handling conventions for the vitanet CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. The wrapping helpers of
// github.com/cockroachdb/errors are re-exported so command code needs a
// single errors import.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (missing bundle, version mismatch, refused overwrite)
//   - ExitSystem (2): System-related error (I/O, SQL execution, permissions)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := vitaerrors.NewUserError(cause, "Re-run with --force to overwrite")
//	os.Exit(vitaerrors.ExitCode(err))
package errors
