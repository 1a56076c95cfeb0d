// Package filesystem is the storage layer variants are read from. A variant's
// handle is a FileLocator string such as "local#/music/track/alac.m4a" or
// "rclone#remote/music/track/alac.m4a".
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"

	"gitlab.com/olaris/olaris-variants/errdefs"
)

// BackendType specifies what kind of storage backend a file lives on.
type BackendType int

const (
	// BackendLocal is used for files on the local filesystem
	BackendLocal BackendType = iota
	// BackendRclone is used for files on Rclone remotes
	BackendRclone
)

// FileLocator identifies a file on a backend.
type FileLocator struct {
	Backend BackendType
	Path    string
}

var backendTypeToString = map[BackendType]string{
	BackendLocal:  "local",
	BackendRclone: "rclone",
}

func (fl FileLocator) String() string {
	return fmt.Sprintf("%s#%s", backendTypeToString[fl.Backend], fl.Path)
}

// Ext returns the lower-cased file extension including the dot.
func (fl FileLocator) Ext() string {
	return strings.ToLower(path.Ext(fl.Path))
}

// Node is a stat result on some backend.
type Node interface {
	BackendType() BackendType
	Size() int64
	Name() string
	Path() string
	IsDir() bool
	FileLocator() FileLocator
}

// File is an open, randomly readable file. Close must always be called.
type File interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// ParseFileLocator parses "local#/path", "rclone#remote/path" or a bare path,
// which is treated as local.
func ParseFileLocator(locatorStr string) (FileLocator, error) {
	if locatorStr == "" {
		return FileLocator{}, errors.New("empty file locator")
	}
	parts := strings.SplitN(locatorStr, "#", 2)

	if len(parts) == 2 {
		switch parts[0] {
		case "rclone":
			return FileLocator{BackendRclone, strings.TrimPrefix(parts[1], "/")}, nil
		case "local":
			return FileLocator{BackendLocal, path.Clean("/" + parts[1])}, nil
		}
	}
	// Don't require an explicit local prefix
	return FileLocator{BackendLocal, path.Clean("/" + locatorStr)}, nil
}

// GetNodeFromFileLocator stats the file behind l.
func GetNodeFromFileLocator(l FileLocator) (Node, error) {
	var node Node
	var err error
	switch l.Backend {
	case BackendLocal:
		node, err = LocalNodeFromPath(l.Path)
	case BackendRclone:
		node, err = RcloneNodeFromPath(l.Path)
	default:
		return nil, fmt.Errorf("no such backend: %d", l.Backend)
	}
	if err != nil {
		return nil, classify(err, l)
	}
	return node, nil
}

// Open opens the file behind l for random access reads. Missing files yield
// errdefs.ErrNotFound, every other failure errdefs.ErrIOFailure.
func Open(ctx context.Context, l FileLocator) (File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var f File
	var err error
	switch l.Backend {
	case BackendLocal:
		f, err = openLocal(l.Path)
	case BackendRclone:
		f, err = openRclone(l.Path)
	default:
		return nil, errors.Wrapf(errdefs.ErrNotFound, "no such backend: %d", l.Backend)
	}
	if err != nil {
		return nil, classify(err, l)
	}
	return f, nil
}

func classify(err error, l FileLocator) error {
	if isNotExist(err) {
		return errors.Wrapf(errdefs.ErrNotFound, "%s: %s", l, err)
	}
	return errors.Wrapf(errdefs.ErrIOFailure, "%s: %s", l, err)
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) || isRcloneNotExist(err)
}
