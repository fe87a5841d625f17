package bundle

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vitanet/vitanet/internal/archive"
)

// Summary describes one bundle found by List.
type Summary struct {
	Path      string            `json:"path"`
	Name      string            `json:"name"`
	SizeBytes int64             `json:"size_bytes"`
	ModTime   time.Time         `json:"mod_time"`
	Metadata  *archive.Metadata `json:"metadata,omitempty"`

	// Error is set when the metadata could not be read.
	Error string `json:"error,omitempty"`
}

// CreatedAt returns the metadata creation time, or the file modification
// time for unreadable bundles.
func (s Summary) CreatedAt() time.Time {
	if s.Metadata != nil && !s.Metadata.CreatedAt.IsZero() {
		return s.Metadata.CreatedAt
	}
	return s.ModTime
}

// List returns the bundles directly inside dir, newest first. Unreadable
// bundles are included with Error set. A missing dir yields no bundles.
func List(dir string) ([]Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading bundle directory %s", dir)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		s := Summary{
			Path:      filepath.Join(dir, e.Name()),
			Name:      e.Name(),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		}
		meta, _, err := archive.ReadMetadata(s.Path)
		if err != nil {
			s.Error = err.Error()
		} else {
			s.Metadata = meta
		}
		out = append(out, s)
	}

	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
