package content

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const osCreateFlags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC

// File is a handle to one source or target file. The modification time is
// captured when the handle is created; a missing file reports the zero time,
// which callers treat as "always rebuild".
type File struct {
	fs          afero.Fs
	path        string
	lastUpdated time.Time
}

// NewFile creates a handle for path on fsys.
func NewFile(fsys afero.Fs, path string) *File {
	f := &File{fs: fsys, path: path}
	if info, err := fsys.Stat(path); err == nil && !info.IsDir() {
		f.lastUpdated = info.ModTime()
	}
	return f
}

// Path returns the absolute path of the file.
func (f *File) Path() string { return f.path }

// LastUpdated returns the modification time captured at construction.
func (f *File) LastUpdated() time.Time { return f.lastUpdated }

// Exists reports whether the file existed when the handle was created.
func (f *File) Exists() bool { return !f.lastUpdated.IsZero() }

// Ext returns the file extension including the dot.
func (f *File) Ext() string { return filepath.Ext(f.path) }

// ReadAllText reads the whole file.
func (f *File) ReadAllText() (string, error) {
	b, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteAllText writes text, creating parent directories as needed.
func (f *File) WriteAllText(text string) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(f.fs, f.path, []byte(text), 0o644); err != nil {
		return err
	}
	f.lastUpdated = time.Now()
	return nil
}

// CopyTo copies the file's bytes to dst, creating dst's parent directories.
func (f *File) CopyTo(dst *File) error {
	src, err := f.fs.Open(f.path)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if err := dst.fs.MkdirAll(filepath.Dir(dst.path), 0o755); err != nil {
		return err
	}
	out, err := dst.fs.OpenFile(dst.path, osCreateFlags, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	dst.lastUpdated = time.Now()
	return nil
}

// NewerThan reports whether f was modified after other. A missing other
// always makes f newer.
func (f *File) NewerThan(other *File) bool {
	if other == nil || !other.Exists() {
		return true
	}
	return f.lastUpdated.After(other.lastUpdated)
}

// IsNotExist reports whether err means the file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
