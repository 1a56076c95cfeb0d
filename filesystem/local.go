package filesystem

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalNode is a file on the local filesystem.
type LocalNode struct {
	fileInfo os.FileInfo
	path     string
}

// LocalNodeFromPath stats path.
func LocalNodeFromPath(path string) (*LocalNode, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &LocalNode{fileInfo: fileInfo, path: path}, nil
}

func (n *LocalNode) Name() string {
	return n.fileInfo.Name()
}
func (n *LocalNode) Size() int64 {
	return n.fileInfo.Size()
}
func (n *LocalNode) IsDir() bool {
	return n.fileInfo.IsDir()
}
func (n *LocalNode) Path() string {
	return n.path
}
func (n *LocalNode) BackendType() BackendType {
	return BackendLocal
}
func (n *LocalNode) FileLocator() FileLocator {
	return FileLocator{Backend: n.BackendType(), Path: n.path}
}

type localFile struct {
	*os.File
	size int64
}

func (f *localFile) Size() int64 {
	return f.size
}

func openLocal(path string) (File, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, errors.Wrapf(os.ErrNotExist, "%s is a directory", path)
	}
	return &localFile{File: f, size: info.Size()}, nil
}
