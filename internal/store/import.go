package store

import (
	"context"
	"database/sql"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/vitanet/vitanet/internal/logging"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

// InfoVersion is the version recorded in the vitanet_info table of an
// empty store. It tracks the bundle format version.
const InfoVersion = "1.0"

// sidecarSuffixes are the files SQLite keeps next to a database.
var sidecarSuffixes = []string{"-journal", "-wal", "-shm"}

// Import rebuilds a store at destPath from rep and reports which
// representation was used. Anything at destPath, including SQLite sidecar
// files, is removed first. On failure destPath is left as the failed step
// produced it.
func Import(ctx context.Context, rep *Representation, destPath string) (Kind, error) {
	kind := rep.Kind()
	logger := logging.FromContext(ctx)

	if err := RemoveStore(destPath); err != nil {
		return kind, err
	}

	switch kind {
	case KindRawCopy:
		res, err := fileutil.CopyFile(rep.RawPath, destPath)
		if err != nil {
			return kind, errors.Wrapf(err, "copying raw store to %s", destPath)
		}
		logger.Debug("raw copy imported", "path", destPath, "bytes", res.Size)
	case KindSQLDump:
		if err := replay(ctx, destPath, rep.Dump); err != nil {
			return kind, err
		}
		logger.Debug("sql dump replayed", "path", destPath,
			"schema", len(rep.Dump.Schema), "data", len(rep.Dump.Data))
	default:
		if err := CreateEmpty(ctx, destPath); err != nil {
			return kind, err
		}
		logger.Debug("empty store created", "path", destPath)
	}
	return kind, nil
}

// RemoveStore deletes path and its SQLite sidecar files. Missing files are
// not an error.
func RemoveStore(path string) error {
	for _, p := range append([]string{path}, sidecars(path)...) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", p)
		}
	}
	return nil
}

func sidecars(path string) []string {
	out := make([]string, len(sidecarSuffixes))
	for i, s := range sidecarSuffixes {
		out[i] = path + s
	}
	return out
}

func replay(ctx context.Context, destPath string, dump *SQLDump) error {
	db, err := Open(ctx, destPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := execAll(ctx, db, "schema", dump.Schema); err != nil {
		return err
	}
	return execAll(ctx, db, "data", dump.Data)
}

// execAll runs stmts in a single transaction.
func execAll(ctx context.Context, db *sql.DB, phase string, stmts []string) error {
	logger := logging.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "starting %s transaction", phase)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range stmts {
		logger.Log(ctx, logging.LevelTrace, "executing statement", "phase", phase, "index", i)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Mark(errors.Wrapf(err, "%s statement %d", phase, i+1), ErrScriptExecution)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Mark(errors.Wrapf(err, "committing %s", phase), ErrScriptExecution)
	}
	return nil
}

// CreateEmpty creates a store at path holding only a vitanet_info table
// with a single ('version', InfoVersion) row.
func CreateEmpty(ctx context.Context, path string) error {
	db, err := Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	return execAll(ctx, db, "init", []string{
		`CREATE TABLE IF NOT EXISTS vitanet_info (
			id INTEGER PRIMARY KEY,
			key TEXT UNIQUE,
			value TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT OR REPLACE INTO vitanet_info (key, value) VALUES ('version', ` + quoteLiteral(InfoVersion) + `)`,
	})
}
