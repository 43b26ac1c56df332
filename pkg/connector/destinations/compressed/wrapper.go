// Package compressed provides atomic, optionally compressed output files for
// docqual destinations.
package compressed

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/ajitpratap0/docqual/pkg/compression"
	"github.com/ajitpratap0/docqual/pkg/errors"
)

// File is an output written to a temporary sibling and renamed into place
// on Commit, so readers never see a partial table. The compression
// algorithm follows the target's extension.
type File struct {
	path      string
	tmp       *os.File
	stream    io.WriteCloser
	algorithm compression.Algorithm
	done      bool
}

// Create opens a temporary file next to path, creating parent directories.
func Create(path string, level compression.Level) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").
			WithDetail("path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file").
			WithDetail("path", path)
	}

	alg := compression.FromPath(path)
	stream, err := compression.NewWriter(tmp, alg, level)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compression stream").
			WithDetail("path", path)
	}

	return &File{path: path, tmp: tmp, stream: stream, algorithm: alg}, nil
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	return f.stream.Write(p)
}

// Path returns the final path.
func (f *File) Path() string { return f.path }

// Algorithm returns the compression in use.
func (f *File) Algorithm() compression.Algorithm { return f.algorithm }

// Commit flushes the stream and moves the file into place.
func (f *File) Commit() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.finish(); err != nil {
		return err
	}
	return f.publish()
}

// CommitAll finishes every file and moves them into place only once all of
// them were flushed to disk. If any file fails to finish, every temporary
// file is removed and no target is touched.
func CommitAll(files ...*File) error {
	pending := make([]*File, 0, len(files))
	for _, f := range files {
		if f != nil && !f.done {
			f.done = true
			pending = append(pending, f)
		}
	}

	var err error
	for _, f := range pending {
		err = multierr.Append(err, f.finish())
	}
	if err != nil {
		for _, f := range pending {
			_ = os.Remove(f.tmp.Name())
		}
		return err
	}

	for _, f := range pending {
		err = multierr.Append(err, f.publish())
	}
	return err
}

func (f *File) finish() error {
	err := f.stream.Close()
	err = multierr.Append(err, f.tmp.Sync())
	err = multierr.Append(err, f.tmp.Close())
	if err != nil {
		_ = os.Remove(f.tmp.Name())
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish output file").
			WithDetail("path", f.path)
	}
	return nil
}

func (f *File) publish() error {
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to move output into place").
			WithDetail("path", f.path)
	}
	return nil
}

// Abort discards the temporary file. It is a no-op after Commit.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true

	err := multierr.Combine(f.stream.Close(), f.tmp.Close())
	return multierr.Append(err, os.Remove(f.tmp.Name()))
}
