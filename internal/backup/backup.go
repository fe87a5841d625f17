package backup

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vitanet/vitanet/internal/paths"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

// maxCollisions bounds the counter appended to a taken backup name.
const maxCollisions = 1000

// ErrNoStore indicates there is no store to back up.
var ErrNoStore = errors.New("store does not exist")

// Backup describes one safety backup.
type Backup struct {
	// Path is the backup file.
	Path string `json:"path"`

	// CreatedAt is the time encoded in the file name.
	CreatedAt time.Time `json:"created_at"`

	// Size is the backup size in bytes.
	Size int64 `json:"size_bytes"`

	// SHA256 is the hex digest of the backup. List leaves it empty.
	SHA256 string `json:"sha256,omitempty"`
}

// Take copies the store at storePath to a new sibling named after now.
func Take(storePath string, now time.Time) (*Backup, error) {
	info, err := os.Stat(storePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoStore, "%s", storePath)
		}
		return nil, errors.Wrapf(err, "stat %s", storePath)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", storePath)
	}

	dest, err := reserve(paths.BackupPath(storePath, now))
	if err != nil {
		return nil, err
	}

	res, err := fileutil.CopyFile(storePath, dest)
	if err != nil {
		os.Remove(dest)
		return nil, errors.Wrapf(err, "backing up %s", storePath)
	}

	return &Backup{
		Path:      dest,
		CreatedAt: now,
		Size:      res.Size,
		SHA256:    res.SHA256,
	}, nil
}

// reserve atomically creates an empty file at base, or at base_N for the
// smallest free N, and returns its path.
func reserve(base string) (string, error) {
	for i := 0; i < maxCollisions; i++ {
		candidate := base
		if i > 0 {
			candidate = base + "_" + strconv.Itoa(i)
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileutil.DefaultFilePerm)
		if err == nil {
			return candidate, f.Close()
		}
		if !os.IsExist(err) {
			return "", errors.Wrapf(err, "creating backup %s", candidate)
		}
	}
	return "", errors.Newf("no free backup name for %s after %d attempts", base, maxCollisions)
}

// List returns the safety backups of storePath, newest first. Files whose
// suffix is not a backup timestamp are skipped.
func List(storePath string) ([]Backup, error) {
	dir := filepath.Dir(storePath)
	prefix := filepath.Base(storePath) + ".backup."

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var backups []Backup
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		created, ok := parseSuffix(strings.TrimPrefix(name, prefix))
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Path:      filepath.Join(dir, name),
			CreatedAt: created,
			Size:      info.Size(),
		})
	}

	slices.SortFunc(backups, func(a, b Backup) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

// parseSuffix accepts YYYYMMDD_HHMMSS with an optional _N counter.
func parseSuffix(s string) (time.Time, bool) {
	layout := paths.BackupTimestampLayout
	if len(s) < len(layout) {
		return time.Time{}, false
	}
	ts, rest := s[:len(layout)], s[len(layout):]
	if rest != "" {
		n, ok := strings.CutPrefix(rest, "_")
		if !ok {
			return time.Time{}, false
		}
		if _, err := strconv.Atoi(n); err != nil {
			return time.Time{}, false
		}
	}
	t, err := time.ParseInLocation(layout, ts, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
