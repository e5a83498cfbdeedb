//go:build windows

package gateways

import (
	"io"
	"os"
)

// pendingFile is written in full and then either committed into place or discarded
type pendingFile interface {
	io.Writer
	Commit() error
	Cleanup() error
}

// renameio does not support windows; write in place and remove on failure
type plainFile struct {
	*os.File
	committed bool
}

func (f *plainFile) Commit() error {
	f.committed = true
	return f.Close()
}

func (f *plainFile) Cleanup() error {
	if f.committed {
		return nil
	}
	_ = f.Close()
	return os.Remove(f.Name())
}

func createAtomic(path string, perm os.FileMode) (pendingFile, error) {
	//nolint:gosec // G304: path is a build output path
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return nil, err
	}
	return &plainFile{File: f}, nil
}

// WriteFileAtomic writes data to path; windows has no atomic replace here
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
