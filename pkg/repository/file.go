package repository

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
)

// File is a Repository that keeps one file per key in a directory
type File struct {
	dir string
}

// NewFile creates a file store rooted at dir. The directory is created on
// first write.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, goerr.New("file store directory is empty")
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to read file store", goerr.V("key", key))
	}
	return string(data), true, nil
}

// Set writes through a temp file and rename so that readers never see a
// partial value.
func (f *File) Set(ctx context.Context, key, value string) error {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return f.writeError(err, key, "failed to create file store directory")
	}

	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return f.writeError(err, key, "failed to create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return f.writeError(err, key, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return f.writeError(err, key, "failed to close temp file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return f.writeError(err, key, "failed to rename temp file")
	}
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerr.Wrap(err, "failed to remove file store entry", goerr.V("key", key))
	}
	return nil
}

func (f *File) writeError(err error, key, msg string) error {
	if errors.Is(err, syscall.ENOSPC) {
		return goerr.Wrap(model.ErrStorageQuotaExceeded, msg,
			goerr.V("key", key),
			goerr.V("cause", err.Error()))
	}
	return goerr.Wrap(err, msg, goerr.V("key", key), goerr.V("dir", f.dir))
}
