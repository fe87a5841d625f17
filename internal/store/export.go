package store

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/vitanet/vitanet/internal/logging"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

// RawCopyFileName is the name of the RawCopy written into the scratch directory.
const RawCopyFileName = "store-copy.db"

// Export snapshots the store at storePath into scratchDir. The RawCopy is
// always produced; the SqlDump is attempted from that copy so both describe
// the same state. A dump failure is kept in DumpErr.
func Export(ctx context.Context, storePath, scratchDir string) (*Representation, error) {
	logger := logging.FromContext(ctx)

	rawPath := filepath.Join(scratchDir, RawCopyFileName)
	res, err := fileutil.CopyFile(storePath, rawPath)
	if err != nil {
		return nil, errors.Wrapf(err, "copying store %s", storePath)
	}
	logger.Debug("store copied", "path", storePath, "bytes", res.Size, "sha256", res.SHA256)

	rep := &Representation{
		RawPath:   rawPath,
		RawSHA256: res.SHA256,
		RawSize:   res.Size,
	}

	dump, err := DumpFile(ctx, rawPath)
	if err != nil {
		rep.DumpErr = errors.Wrap(err, "dumping store")
		logger.Warn("sql dump unavailable, bundle will carry the raw copy only", "error", err)
		return rep, nil
	}
	rep.Dump = dump
	return rep, nil
}
