package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/vitanet/vitanet/internal/archive"
	"github.com/vitanet/vitanet/internal/backup"
	"github.com/vitanet/vitanet/internal/logging"
	"github.com/vitanet/vitanet/internal/metafile"
	"github.com/vitanet/vitanet/internal/paths"
	"github.com/vitanet/vitanet/internal/store"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

// Manager creates and restores bundles for one store.
type Manager struct {
	storePath       string
	logger          *slog.Logger
	now             func() time.Time
	producerVersion string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source used for metadata and backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithProducerVersion sets the producer_version written into metadata.
func WithProducerVersion(v string) Option {
	return func(m *Manager) {
		if v != "" {
			m.producerVersion = v
		}
	}
}

// NewManager creates a Manager bound to storePath.
func NewManager(storePath string, opts ...Option) *Manager {
	m := &Manager{
		storePath:       storePath,
		logger:          logging.NewDiscard(),
		now:             time.Now,
		producerVersion: DefaultProducerVersion,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StorePath returns the store the Manager is bound to.
func (m *Manager) StorePath() string {
	return m.storePath
}

// EnsureExtension appends Extension to path unless it already ends with it.
func EnsureExtension(path string) string {
	if strings.HasSuffix(path, Extension) {
		return path
	}
	return path + Extension
}

// Create writes a bundle of the store to bundlePath, appending Extension
// when missing. custom is stored as the bundle's custom metadata and must
// be representable as JSON. A missing store is not an error: the bundle then
// holds metadata only and store_included is false.
func (m *Manager) Create(ctx context.Context, bundlePath string, custom map[string]any) *CreateResult {
	bundlePath = EnsureExtension(bundlePath)
	res := &CreateResult{BundlePath: bundlePath}
	log := m.logger.With("op", "create", "bundle", bundlePath)
	ctx = logging.NewContext(ctx, log)

	failed := func(kind ErrorKind, err error) *CreateResult {
		log.Debug("create failed", "kind", kind, "error", err)
		res.Outcome = fail(kind, err, "Failed to create bundle: "+err.Error())
		return res
	}

	custom, err := metafile.Normalize(custom)
	if err != nil {
		return failed(ErrorInvalidMetadata, err)
	}
	if custom == nil {
		custom = map[string]any{}
	}

	storeExists, err := fileutil.Exists(m.storePath)
	if err != nil {
		return failed(ErrorFilesystem, err)
	}

	scratch, err := os.MkdirTemp(filepath.Dir(bundlePath), ".vitanet-create-*")
	if err != nil {
		return failed(ErrorFilesystem, errors.Wrap(err, "creating scratch directory"))
	}
	defer os.RemoveAll(scratch)
	log.Debug("writing bundle", "scratch", scratch, "store_included", storeExists)

	meta := archive.Metadata{
		FormatVersion:   FormatVersion,
		CreatedAt:       m.now().UTC(),
		ProducerVersion: m.producerVersion,
		StoreIncluded:   storeExists,
		Custom:          custom,
		BundleID:        uuid.NewString(),
	}

	var rep *store.Representation
	if storeExists {
		rep, err = store.Export(ctx, m.storePath, scratch)
		if err != nil {
			return failed(ErrorFilesystem, err)
		}
		meta.StoreSHA256 = rep.RawSHA256
		if rep.DumpErr != nil {
			res.DumpWarning = rep.DumpErr.Error()
		}
	} else {
		log.Info("no store found, bundle will carry metadata only", "store", m.storePath)
	}

	tmp := filepath.Join(scratch, "bundle"+Extension)
	if err := archive.Write(tmp, meta, rep); err != nil {
		return failed(ErrorFilesystem, err)
	}
	if err := fileutil.Publish(tmp, bundlePath, fileutil.DefaultFilePerm); err != nil {
		return failed(ErrorFilesystem, err)
	}
	log.Debug("bundle published")

	info, err := os.Stat(bundlePath)
	if err != nil {
		return failed(ErrorFilesystem, errors.Wrap(err, "stat published bundle"))
	}

	res.SizeBytes = info.Size()
	res.Metadata = &meta
	res.Outcome = succeed("Bundle created successfully at " + bundlePath)
	log.Info("bundle created", "size_bytes", res.SizeBytes, "store_included", storeExists, "bundle_id", meta.BundleID)
	return res
}

// Restore rebuilds the store from the bundle at bundlePath. An existing
// store is only replaced when force is set, and is first copied to a safety
// backup.
func (m *Manager) Restore(ctx context.Context, bundlePath string, force bool) *RestoreResult {
	res := &RestoreResult{BundlePath: bundlePath}
	log := m.logger.With("op", "restore", "bundle", bundlePath, "store", m.storePath)
	ctx = logging.NewContext(ctx, log)

	failed := func(kind ErrorKind, err error, message string) *RestoreResult {
		log.Debug("restore failed", "kind", kind, "error", err)
		res.Outcome = fail(kind, err, message)
		return res
	}

	if _, err := os.Stat(bundlePath); err != nil {
		if os.IsNotExist(err) {
			return failed(ErrorBundleNotFound, err, fmt.Sprintf("Bundle file %s does not exist", bundlePath))
		}
		return failed(ErrorFilesystem, err, "Failed to restore bundle: "+err.Error())
	}

	storeExists, err := fileutil.Exists(m.storePath)
	if err != nil {
		return failed(ErrorFilesystem, err, "Failed to restore bundle: "+err.Error())
	}
	if storeExists && !force {
		return failed(ErrorDestinationExists, nil,
			fmt.Sprintf("Store already exists at %s. Use force to overwrite", m.storePath))
	}

	storeDir := filepath.Dir(m.storePath)
	if err := paths.EnsureDir(storeDir, 0); err != nil {
		return failed(ErrorFilesystem, err, "Failed to restore bundle: "+err.Error())
	}
	scratch, err := os.MkdirTemp(storeDir, ".vitanet-restore-*")
	if err != nil {
		return failed(ErrorFilesystem, err, "Failed to restore bundle: "+err.Error())
	}
	defer os.RemoveAll(scratch)

	log.Debug("extracting bundle", "scratch", scratch)
	contents, err := archive.Read(bundlePath, scratch)
	if err != nil {
		var verr *archive.VersionError
		if errors.As(err, &verr) {
			return failed(ErrorVersionMismatch, err,
				fmt.Sprintf("Bundle version %s not supported (expected %q)", verr.Found, FormatVersion))
		}
		return failed(classify(err), err, "Failed to restore bundle: "+err.Error())
	}
	res.Metadata = &contents.Metadata

	if storeExists {
		b, err := backup.Take(m.storePath, m.now())
		if err != nil {
			return failed(ErrorFilesystem, err, "Failed to back up existing store: "+err.Error())
		}
		res.BackupCreated = true
		res.BackupPath = b.Path
		log.Info("safety backup created", "backup", b.Path, "size_bytes", b.Size)
	}

	log.Debug("importing store", "representation", contents.Representation.Kind())
	kind, err := store.Import(ctx, contents.Representation, m.storePath)
	res.RestoredFrom = kind
	if err != nil {
		msg := "Failed to restore bundle: " + err.Error()
		if res.BackupCreated {
			msg += "; previous store kept at " + res.BackupPath
		}
		return failed(classify(err), err, msg)
	}

	if kind == store.KindEmpty {
		log.Warn("bundle carried no store data, created an empty store")
		res.Outcome = succeed("Bundle restored with an empty store: the bundle carried no store data")
		return res
	}

	log.Info("bundle restored", "restored_from", kind, "backup_created", res.BackupCreated)
	res.Outcome = succeed("Bundle restored successfully")
	return res
}

// Info reads a bundle's metadata and entry list without extracting it.
// It never touches the store.
func (m *Manager) Info(ctx context.Context, bundlePath string) *InfoResult {
	res := &InfoResult{BundlePath: bundlePath}

	info, err := os.Stat(bundlePath)
	if err != nil {
		if os.IsNotExist(err) {
			res.Outcome = fail(ErrorBundleNotFound, err, fmt.Sprintf("Bundle file %s does not exist", bundlePath))
			return res
		}
		res.Outcome = fail(ErrorFilesystem, err, "Failed to read bundle: "+err.Error())
		return res
	}

	meta, entries, err := archive.ReadMetadata(bundlePath)
	if err != nil {
		m.logger.DebugContext(ctx, "info failed", "bundle", bundlePath, "error", err)
		res.Outcome = fail(classify(err), err, "Failed to read bundle: "+err.Error())
		return res
	}

	res.SizeBytes = info.Size()
	res.Metadata = meta
	res.Entries = entries
	res.Outcome = succeed("Bundle information retrieved successfully")
	return res
}

// Status reports the store and the module's format constants. It always
// succeeds.
func (m *Manager) Status() *StatusResult {
	res := &StatusResult{
		StorePath:              m.storePath,
		SupportedFormatVersion: FormatVersion,
		ExtensionTag:           Extension,
		CanCreate:              true,
		CanRestore:             true,
	}

	if info, err := os.Stat(m.storePath); err == nil && !info.IsDir() {
		res.Exists = true
		res.SizeBytes = info.Size()
		res.StoreSHA256, _ = fileutil.HashFile(m.storePath)
	}
	res.RequiresForce = res.Exists

	if backups, err := backup.List(m.storePath); err == nil && len(backups) > 0 {
		res.BackupCount = len(backups)
		res.LatestBackup = backups[0].Path
		if res.StoreSHA256 != "" {
			sum, err := fileutil.HashFile(res.LatestBackup)
			res.LatestBackupCurrent = err == nil && sum == res.StoreSHA256
		}
	}

	res.Outcome = succeed("Bundle status retrieved successfully")
	return res
}
