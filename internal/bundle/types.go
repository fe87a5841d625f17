package bundle

import (
	"github.com/cockroachdb/errors"

	"github.com/vitanet/vitanet/internal/archive"
	"github.com/vitanet/vitanet/internal/paths"
	"github.com/vitanet/vitanet/internal/store"
)

// FormatVersion is the bundle format version written and accepted.
const FormatVersion = archive.FormatVersion

// Extension is appended to bundle paths that lack it.
const Extension = paths.BundleExt

// DefaultProducerVersion is recorded when no WithProducerVersion option is given.
const DefaultProducerVersion = "dev"

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	ErrorBundleNotFound    ErrorKind = "bundle_not_found"
	ErrorMalformedArchive  ErrorKind = "malformed_archive"
	ErrorVersionMismatch   ErrorKind = "version_mismatch"
	ErrorDestinationExists ErrorKind = "destination_exists"
	ErrorScriptExecution   ErrorKind = "script_execution_failure"
	ErrorFilesystem        ErrorKind = "filesystem_error"
	ErrorInvalidMetadata   ErrorKind = "invalid_metadata"
)

// Sentinels for errors.Is against the result of Outcome.Err.
var (
	ErrBundleNotFound    = &Error{Kind: ErrorBundleNotFound}
	ErrMalformedArchive  = &Error{Kind: ErrorMalformedArchive}
	ErrVersionMismatch   = &Error{Kind: ErrorVersionMismatch}
	ErrDestinationExists = &Error{Kind: ErrorDestinationExists}
	ErrScriptExecution   = &Error{Kind: ErrorScriptExecution}
	ErrFilesystem        = &Error{Kind: ErrorFilesystem}
	ErrInvalidMetadata   = &Error{Kind: ErrorInvalidMetadata}
)

// Error is the error form of a failed Outcome.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Outcome is embedded in every result.
type Outcome struct {
	Success bool      `json:"success"`
	Error   ErrorKind `json:"error,omitempty"`
	Message string    `json:"message"`

	cause error
}

// Err returns nil on success and a *Error otherwise.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return &Error{Kind: o.Error, Message: o.Message, Cause: o.cause}
}

func succeed(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

func fail(kind ErrorKind, cause error, message string) Outcome {
	return Outcome{Error: kind, Message: message, cause: cause}
}

// classify maps errors from the archive and store layers onto kinds.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		return ErrorBundleNotFound
	case errors.Is(err, archive.ErrMalformedArchive), errors.Is(err, archive.ErrParse):
		return ErrorMalformedArchive
	case errors.Is(err, store.ErrScriptExecution):
		return ErrorScriptExecution
	default:
		return ErrorFilesystem
	}
}

// CreateResult reports a Create call.
type CreateResult struct {
	Outcome
	BundlePath string            `json:"bundle_path,omitempty"`
	SizeBytes  int64             `json:"size_bytes,omitempty"`
	Metadata   *archive.Metadata `json:"metadata,omitempty"`

	// DumpWarning is set when the store was included but its SQL dump
	// could not be produced. The bundle still carries the raw copy.
	DumpWarning string `json:"dump_warning,omitempty"`
}

// RestoreResult reports a Restore call.
type RestoreResult struct {
	Outcome
	BundlePath    string            `json:"bundle_path,omitempty"`
	RestoredFrom  store.Kind        `json:"restored_from,omitempty"`
	BackupCreated bool              `json:"backup_created"`
	BackupPath    string            `json:"backup_path,omitempty"`
	Metadata      *archive.Metadata `json:"metadata,omitempty"`
}

// InfoResult reports an Info call.
type InfoResult struct {
	Outcome
	BundlePath string            `json:"bundle_path,omitempty"`
	SizeBytes  int64             `json:"size_bytes,omitempty"`
	Metadata   *archive.Metadata `json:"metadata,omitempty"`
	Entries    []string          `json:"contents,omitempty"`
}

// StatusResult reports the store a Manager is bound to.
type StatusResult struct {
	Outcome
	StorePath              string `json:"store_path"`
	Exists                 bool   `json:"exists"`
	SizeBytes              int64  `json:"size_bytes"`
	SupportedFormatVersion string `json:"supported_format_version"`
	ExtensionTag           string `json:"extension"`
	CanCreate              bool   `json:"can_create_bundle"`
	CanRestore             bool   `json:"can_restore_bundle"`

	// RequiresForce is true when a restore would hit the overwrite guard.
	RequiresForce bool `json:"requires_force"`

	// StoreSHA256 is the hex digest of the store file, empty when it does
	// not exist or cannot be read.
	StoreSHA256 string `json:"store_sha256,omitempty"`

	BackupCount  int    `json:"backup_count"`
	LatestBackup string `json:"latest_backup,omitempty"`

	// LatestBackupCurrent is true when the latest backup is byte-identical
	// to the store.
	LatestBackupCurrent bool `json:"latest_backup_current"`
}
