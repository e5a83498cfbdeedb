//go:build !windows

package gateways

import (
	"io"
	"os"

	"github.com/google/renameio/v2"
)

// pendingFile is written in full and then either committed into place or discarded
type pendingFile interface {
	io.Writer
	Commit() error
	Cleanup() error
}

type renameioFile struct {
	*renameio.PendingFile
}

func (f renameioFile) Commit() error {
	return f.CloseAtomicallyReplace()
}

// createAtomic opens a temp file that replaces path on Commit.
// Cleanup after a successful Commit is a no-op.
func createAtomic(path string, perm os.FileMode) (pendingFile, error) {
	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(perm))
	if err != nil {
		return nil, err
	}
	return renameioFile{f}, nil
}

// WriteFileAtomic writes data to path with fsync and atomic rename
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
