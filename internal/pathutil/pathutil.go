// Package pathutil prepares filesystem targets: it guarantees a file or
// directory exists with the requested kind and permissions, creating parent
// directories as needed. All access goes through afero so callers can run
// against a memory filesystem.
package pathutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/launchman/internal/errors"
)

// Kind selects what Ensure creates.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Options controls Ensure.
type Options struct {
	// Kind of target to guarantee. Defaults to KindFile.
	Kind Kind
	// Perm is applied to a newly created target. Zero keeps the defaults
	// (0644 files, 0755 directories).
	Perm os.FileMode
	// AllowExisting accepts a pre-existing target of the right kind instead
	// of failing.
	AllowExisting bool
	// DefaultDir anchors relative paths. A relative path without it is an
	// error.
	DefaultDir string
}

// Ensure guarantees that path exists with the requested kind and permissions
// and returns the resolved path. OS-level failures (permissions, races) are
// returned as-is.
func Ensure(fsys afero.Fs, path string, opt Options) (string, error) {
	if opt.Kind == "" {
		opt.Kind = KindFile
	}
	if opt.Kind != KindFile && opt.Kind != KindDirectory {
		return "", errors.New(errors.CategoryInternal, "invalid target kind").
			WithContext("kind", string(opt.Kind))
	}

	if !filepath.IsAbs(path) {
		if opt.DefaultDir == "" {
			return "", errors.RelativePath(path)
		}
		path = filepath.Join(opt.DefaultDir, path)
	}

	info, err := fsys.Stat(path)
	switch {
	case err == nil:
		if !opt.AllowExisting {
			return "", errors.PathExists(path)
		}
		if info.IsDir() != (opt.Kind == KindDirectory) {
			return "", errors.PathKindMismatch(path, string(opt.Kind), kindOf(info))
		}
		return path, nil
	case !os.IsNotExist(err):
		return "", err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	switch opt.Kind {
	case KindDirectory:
		perm := opt.Perm
		if perm == 0 {
			perm = 0o755
		}
		if err := fsys.Mkdir(path, perm); err != nil {
			return "", err
		}
	default:
		perm := opt.Perm
		if perm == 0 {
			perm = 0o644
		}
		f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
		if err != nil {
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
	}

	// Mkdir/OpenFile modes are subject to umask; chmod pins the exact bits
	// when the caller asked for specific ones.
	if opt.Perm != 0 {
		if err := fsys.Chmod(path, opt.Perm); err != nil {
			return "", err
		}
	}
	return path, nil
}

func kindOf(info os.FileInfo) string {
	if info.IsDir() {
		return string(KindDirectory)
	}
	return string(KindFile)
}
