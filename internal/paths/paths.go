package paths

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "vitanet"

// Default file names.
const (
	ConfigFileName = "config.yaml"
	StoreFileName  = "vitanet.db"
	BundlesDirName = "bundles"
)

// BundleExt is the conventional bundle file extension.
const BundleExt = ".vitanet"

// BackupTimestampLayout formats the suffix of safety-backup files.
const BackupTimestampLayout = "20060102_150405"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns <ConfigHome>/vitanet.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns <ConfigHome>/vitanet/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// DataDir returns <DataHome>/vitanet.
func DataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// DefaultStorePath returns <DataHome>/vitanet/vitanet.db.
func DefaultStorePath() string {
	return filepath.Join(DataDir(), StoreFileName)
}

// DefaultBundleDir returns <DataHome>/vitanet/bundles.
func DefaultBundleDir() string {
	return filepath.Join(DataDir(), BundlesDirName)
}

// DefaultBundleName returns the name used when no bundle path is given:
// vitanet_bundle_<YYYYMMDD_HHMMSS>.vitanet.
func DefaultBundleName(now time.Time) string {
	return "vitanet_bundle_" + now.Format(BackupTimestampLayout) + BundleExt
}

// BackupPath returns the safety-backup location for storePath taken at now:
// <storePath>.backup.<YYYYMMDD_HHMMSS>.
func BackupPath(storePath string, now time.Time) string {
	return storePath + ".backup." + now.Format(BackupTimestampLayout)
}

// BackupGlob returns a filepath.Glob pattern matching every safety backup
// of storePath.
func BackupGlob(storePath string) string {
	return storePath + ".backup.*"
}
