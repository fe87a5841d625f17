package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/flate"

	"github.com/vitanet/vitanet/internal/store"
)

// entryMode is the permission recorded for every entry.
const entryMode = 0o600

func deflater(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression)
}

// Write creates the bundle at targetPath holding meta and, when present,
// the RawCopy and SqlDump of rep. targetPath is truncated if it exists and
// removed again if writing fails. Callers publish the result by renaming.
func Write(targetPath string, meta Metadata, rep *store.Representation) (err error) {
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding bundle metadata")
	}

	f, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entryMode)
	if err != nil {
		return errors.Wrapf(err, "creating %s", targetPath)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(targetPath)
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, deflater)

	if err := writeEntry(zw, EntryMetadata, meta, bytes.NewReader(metaJSON)); err != nil {
		return err
	}

	if rep.HasRawCopy() {
		raw, err := os.Open(rep.RawPath)
		if err != nil {
			return errors.Wrap(err, "opening raw copy")
		}
		err = writeEntry(zw, EntryRawCopy, meta, raw)
		raw.Close()
		if err != nil {
			return err
		}
	}

	if rep.HasSQLDump() {
		if err := writeEntry(zw, EntrySchema, meta, bytes.NewReader(store.Script(rep.Dump.Schema))); err != nil {
			return err
		}
		if err := writeEntry(zw, EntryData, meta, bytes.NewReader(store.Script(rep.Dump.Data))); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "finalizing archive")
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(err, "syncing archive")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing archive")
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, meta Metadata, r io.Reader) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: meta.CreatedAt,
	}
	header.SetMode(entryMode)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, "creating entry %s", name)
	}
	if _, err := io.Copy(w, r); err != nil {
		return errors.Wrapf(err, "writing entry %s", name)
	}
	return nil
}
