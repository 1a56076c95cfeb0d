package filesystem

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	_ "github.com/rclone/rclone/backend/drive"
	_ "github.com/rclone/rclone/backend/local"
	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/config"
	"github.com/rclone/rclone/fs/config/configfile"
	"github.com/rclone/rclone/vfs"
	"github.com/rclone/rclone/vfs/vfscommon"
	log "github.com/sirupsen/logrus"
)

type rclonePath struct {
	remoteName string
	path       string
}

func splitRclonePath(pathStr string) (rclonePath, error) {
	pathStr = strings.TrimPrefix(pathStr, "/")
	parts := strings.SplitN(pathStr, "/", 2)

	if len(parts) != 2 || parts[0] == "" {
		return rclonePath{}, fmt.Errorf("\"%s\" is not an rclone path string", pathStr)
	}

	return rclonePath{remoteName: strings.TrimSuffix(parts[0], ":"), path: parts[1]}, nil
}

// RcloneNode is a file on an Rclone remote.
type RcloneNode struct {
	Node       vfs.Node
	remoteName string
}

var (
	vfsCache     = map[string]*vfs.VFS{}
	vfsCacheLock sync.Mutex
	newFsFunc    = fs.NewFs
	configOnce   sync.Once
)

// InitRclone loads the rclone configuration file at configPath, or rclone's
// own default location when configPath is empty. Only the first call has an
// effect.
func InitRclone(configPath string) {
	configOnce.Do(func() {
		if configPath != "" {
			if err := config.SetConfigPath(configPath); err != nil {
				log.WithError(err).WithField("path", configPath).Warnln("could not use rclone config")
			}
		}
		configfile.Install()
	})
}

func getVFS(remoteName string) (*vfs.VFS, error) {
	vfsCacheLock.Lock()
	defer vfsCacheLock.Unlock()

	if v, ok := vfsCache[remoteName]; ok {
		return v, nil
	}

	log.WithFields(log.Fields{"remoteName": remoteName}).Debugln("creating rclone VFS")
	f, err := newFsFunc(context.Background(), remoteName+":")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rclone Fs")
	}

	opt := vfscommon.DefaultOpt
	opt.ReadOnly = true
	v := vfs.New(f, &opt)
	vfsCache[remoteName] = v
	return v, nil
}

// RcloneNodeFromPath stats "remote/path/to/file".
func RcloneNodeFromPath(pathStr string) (*RcloneNode, error) {
	l, err := splitRclonePath(pathStr)
	if err != nil {
		return nil, err
	}
	v, err := getVFS(l.remoteName)
	if err != nil {
		return nil, err
	}

	node, err := v.Stat(l.path)
	if err != nil {
		return nil, err
	}
	return &RcloneNode{Node: node, remoteName: l.remoteName}, nil
}

func (n *RcloneNode) Name() string {
	return n.Node.Name()
}

func (n *RcloneNode) Path() string {
	return n.Node.Path()
}
func (n *RcloneNode) Size() int64 {
	return n.Node.Size()
}

func (n *RcloneNode) IsDir() bool {
	return n.Node.IsDir()
}

func (n *RcloneNode) BackendType() BackendType {
	return BackendRclone
}
func (n *RcloneNode) FileLocator() FileLocator {
	return FileLocator{
		Backend: n.BackendType(),
		Path:    n.remoteName + "/" + strings.TrimPrefix(n.Path(), "/"),
	}
}

type rcloneFile struct {
	vfs.Handle
	size int64
}

func (f *rcloneFile) Size() int64 {
	return f.size
}

func openRclone(pathStr string) (File, error) {
	node, err := RcloneNodeFromPath(pathStr)
	if err != nil {
		return nil, err
	}
	if node.IsDir() {
		return nil, errors.Wrapf(os.ErrNotExist, "%s is a directory", pathStr)
	}

	l, _ := splitRclonePath(pathStr)
	v, err := getVFS(l.remoteName)
	if err != nil {
		return nil, err
	}
	h, err := v.OpenFile(l.path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &rcloneFile{Handle: h, size: node.Size()}, nil
}

func isRcloneNotExist(err error) bool {
	return errors.Is(err, vfs.ENOENT) || errors.Is(err, fs.ErrorObjectNotFound) || errors.Is(err, fs.ErrorDirNotFound)
}

// ShutdownRclone releases all cached VFS instances.
func ShutdownRclone() {
	vfsCacheLock.Lock()
	defer vfsCacheLock.Unlock()
	for name, v := range vfsCache {
		v.Shutdown()
		delete(vfsCache, name)
	}
}
