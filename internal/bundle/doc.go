// Package bundle snapshots a vitanet store into a portable bundle file and
// rebuilds the store from one.
//
// A [Manager] is bound to one store path at construction. Its four
// operations never return Go errors; each returns a result embedding an
// [Outcome] with a success flag, a machine-readable [ErrorKind] and a
// human-readable message. Callers that prefer errors use [Outcome.Err].
//
// # Create
//
// [Manager.Create] exports the store (when it exists) into a scratch
// directory beside the destination, writes the archive there and renames the
// finished file into place. A crash mid-build leaves at most a hidden
// scratch directory, never a partial bundle.
//
// # Restore
//
// [Manager.Restore] runs these checks in order, stopping at the first
// failure without touching the store:
//
//  1. the bundle exists (bundle_not_found)
//  2. no store exists, or force is set (destination_exists)
//  3. the archive is readable and carries metadata (malformed_archive)
//  4. the format version is exactly the string [FormatVersion] (version_mismatch, even under force)
//
// Step 4 reads format_version on its own, so a bundle from another format
// version is reported as a mismatch even when the rest of its metadata does
// not decode.
//
// It then copies an existing store to a timestamped safety backup and
// imports the richest representation the bundle carries: the raw copy, else
// the SQL dump, else an empty store. A failed import is not rolled back;
// the safety backup is the recovery path.
//
// # Concurrency
//
// Every call allocates its own scratch directory. Concurrent restores to
// the same store path are not serialized.
package bundle
