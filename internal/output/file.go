package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const bufferSize = 1 << 20

// File is an output file under construction.
type File struct {
	path    string
	tmp     *os.File
	buf     *bufio.Writer
	enc     io.WriteCloser
	w       io.Writer
	written int64
	closed  bool
}

// Create starts writing path. Nothing appears at path until Commit.
func Create(path string, compression Compression) (*File, error) {
	if path == "" {
		return nil, errors.New("output: empty path")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("output: create %s: %w", path, err)
	}
	f := &File{path: path, tmp: tmp, buf: bufio.NewWriterSize(tmp, bufferSize)}
	f.w = f.buf
	enc, err := compression.encoder(f.buf)
	if err != nil {
		_ = f.Abort()
		return nil, err
	}
	if enc != nil {
		f.enc = enc
		f.w = enc
	}
	return f, nil
}

// Path returns the destination path.
func (f *File) Path() string { return f.path }

// Written returns the number of payload bytes accepted so far, before compression.
func (f *File) Written() int64 { return f.written }

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fmt.Errorf("output: write to closed file %s", f.path)
	}
	n, err := f.w.Write(p)
	f.written += int64(n)
	return n, err
}

// Commit flushes all layers and renames the temporary file over the
// destination. On failure the temporary file is removed.
func (f *File) Commit() error {
	if f.closed {
		return fmt.Errorf("output: %s already closed", f.path)
	}
	if err := f.finish(); err != nil {
		_ = f.Abort()
		return fmt.Errorf("output: commit %s: %w", f.path, err)
	}
	f.closed = true
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("output: commit %s: %w", f.path, err)
	}
	return nil
}

func (f *File) finish() error {
	if f.enc != nil {
		if err := f.enc.Close(); err != nil {
			return err
		}
	}
	if err := f.buf.Flush(); err != nil {
		return err
	}
	if err := f.tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := f.tmp.Sync(); err != nil {
		return err
	}
	return f.tmp.Close()
}

// Abort discards the temporary file. It is a no-op after Commit or a prior Abort.
func (f *File) Abort() error {
	if f.closed {
		return nil
	}
	f.closed = true
	_ = f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output: abort %s: %w", f.path, err)
	}
	return nil
}
