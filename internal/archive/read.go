package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/flate"

	"github.com/vitanet/vitanet/internal/store"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

// Sentinel errors for reading bundles.
var (
	// ErrNotFound indicates the bundle path does not exist.
	ErrNotFound = errors.New("bundle not found")

	// ErrMalformedArchive indicates the file is not a readable bundle: not a
	// zip, no entries, no metadata entry, an unsafe entry name, a corrupt
	// entry or a RawCopy whose digest does not match the metadata.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrParse indicates the metadata entry is not valid JSON.
	ErrParse = errors.New("invalid bundle metadata")
)

// Contents is everything Read recovers from a bundle.
type Contents struct {
	Metadata       Metadata
	Entries        []string
	Representation *store.Representation
}

// ReadMetadata returns the metadata and the entry names of the bundle at
// bundlePath without extracting anything else.
func ReadMetadata(bundlePath string) (*Metadata, []string, error) {
	zr, err := open(bundlePath)
	if err != nil {
		return nil, nil, err
	}
	defer zr.Close()

	data, err := metadataBytes(&zr.Reader)
	if err != nil {
		return nil, nil, err
	}
	meta, err := decodeMetadata(data)
	if err != nil {
		return nil, nil, err
	}
	return meta, entryNames(&zr.Reader), nil
}

// Read parses the bundle at bundlePath. A RawCopy entry is extracted into
// scratchDir; SQL scripts are split into statements. A bundle holding only
// metadata yields an empty Representation. The format version is checked
// before the rest of the metadata is decoded and before anything is
// extracted; a mismatch is returned as a *VersionError.
func Read(bundlePath, scratchDir string) (*Contents, error) {
	zr, err := open(bundlePath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	metaBytes, err := metadataBytes(&zr.Reader)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(metaBytes); err != nil {
		var verr *VersionError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s", EntryMetadata), ErrParse)
	}
	meta, err := decodeMetadata(metaBytes)
	if err != nil {
		return nil, err
	}

	rep := &store.Representation{}
	var schema, data *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case EntryRawCopy:
			if rep.HasRawCopy() {
				continue
			}
			if err := extractRaw(f, filepath.Join(scratchDir, EntryRawCopy), rep); err != nil {
				return nil, err
			}
		case EntrySchema:
			if schema == nil {
				schema = f
			}
		case EntryData:
			if data == nil {
				data = f
			}
		}
	}

	if meta.StoreSHA256 != "" && rep.HasRawCopy() && meta.StoreSHA256 != rep.RawSHA256 {
		return nil, errors.Wrapf(ErrMalformedArchive, "%s digest %s does not match metadata %s",
			EntryRawCopy, rep.RawSHA256, meta.StoreSHA256)
	}

	// a dump exists when its schema script does, as data alone cannot be replayed
	if schema != nil {
		rep.Dump = &store.SQLDump{}
		if rep.Dump.Schema, err = readScript(schema); err != nil {
			return nil, err
		}
		if data != nil {
			if rep.Dump.Data, err = readScript(data); err != nil {
				return nil, err
			}
		}
	}

	return &Contents{
		Metadata:       *meta,
		Entries:        entryNames(&zr.Reader),
		Representation: rep,
	}, nil
}

// open validates the container and every entry name.
func open(bundlePath string) (*zip.ReadCloser, error) {
	info, err := os.Stat(bundlePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", bundlePath)
		}
		return nil, errors.Wrapf(err, "stat %s", bundlePath)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", bundlePath)
	}

	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", bundlePath), ErrMalformedArchive)
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	if len(zr.File) == 0 {
		zr.Close()
		return nil, errors.Wrapf(ErrMalformedArchive, "%s has no entries", bundlePath)
	}
	for _, f := range zr.File {
		if !validEntryName(f.Name) {
			zr.Close()
			return nil, errors.Wrapf(ErrMalformedArchive, "unsafe entry name %q", f.Name)
		}
	}
	return zr, nil
}

func validEntryName(name string) bool {
	return name != "" &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.Contains(name, "..") &&
		!filepath.IsAbs(name)
}

func entryNames(zr *zip.Reader) []string {
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func metadataBytes(zr *zip.Reader) ([]byte, error) {
	f := findEntry(zr, EntryMetadata)
	if f == nil {
		return nil, errors.Wrapf(ErrMalformedArchive, "%s not found", EntryMetadata)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", EntryMetadata), ErrMalformedArchive)
	}
	defer rc.Close()

	data, err := fileutil.ReadAllWithLimit(rc)
	if err != nil {
		if errors.Is(err, fileutil.ErrFileTooLarge) {
			return nil, errors.Mark(errors.Wrapf(err, "reading %s", EntryMetadata), ErrParse)
		}
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", EntryMetadata), ErrMalformedArchive)
	}

	return data, nil
}

func decodeMetadata(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding %s", EntryMetadata), ErrParse)
	}
	return &meta, nil
}

// entryReader remembers read failures so they can be told apart from
// write failures on the destination.
type entryReader struct {
	r   io.Reader
	err error
}

func (e *entryReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		e.err = err
	}
	return n, err
}

func extractRaw(f *zip.File, dest string, rep *store.Representation) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "opening %s", f.Name), ErrMalformedArchive)
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entryMode)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dest)
	}
	defer out.Close()

	h := sha256.New()
	er := &entryReader{r: rc}
	n, err := io.Copy(io.MultiWriter(out, h), er)
	if err != nil {
		if er.err != nil {
			return errors.Mark(errors.Wrapf(err, "extracting %s", f.Name), ErrMalformedArchive)
		}
		return errors.Wrapf(err, "extracting %s", f.Name)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dest)
	}

	rep.RawPath = dest
	rep.RawSize = n
	rep.RawSHA256 = hex.EncodeToString(h.Sum(nil))
	return nil
}

func readScript(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", f.Name), ErrMalformedArchive)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", f.Name), ErrMalformedArchive)
	}
	return store.SplitScript(string(data)), nil
}
