package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// CopyResult describes a completed copy.
type CopyResult struct {
	// SHA256 is the hex-encoded digest of the copied bytes.
	SHA256 string

	// Size is the number of bytes copied.
	Size int64

	// Mode is the permission set of the source file.
	Mode os.FileMode
}

// CopyFile copies src to dst byte for byte, computing a SHA256 digest while
// copying. dst is created or truncated and ends up with the source's mode.
func CopyFile(src, dst string) (*CopyResult, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat source file")
	}
	mode := srcInfo.Mode().Perm()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(dstFile, h), srcFile)
	if err != nil {
		dstFile.Close()
		return nil, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Sync(); err != nil {
		dstFile.Close()
		return nil, errors.Wrap(err, "syncing destination file")
	}

	if err := dstFile.Close(); err != nil {
		return nil, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode); err != nil {
		return nil, errors.Wrap(err, "setting permissions")
	}

	return &CopyResult{
		SHA256: hex.EncodeToString(h.Sum(nil)),
		Size:   n,
		Mode:   mode,
	}, nil
}

// HashFile computes the SHA256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Exists reports whether path names an existing regular file.
// Errors other than "not exist" are returned so callers can surface them.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return false, errors.Newf("%s is a directory", path)
	}
	return true, nil
}
