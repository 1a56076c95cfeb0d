// Package helpers holds small filesystem, path and logging utilities shared by
// the commands.
package helpers

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// EnsurePath creates pathName and its parents if they don't exist yet.
func EnsurePath(pathName string) error {
	if _, err := os.Stat(pathName); os.IsNotExist(err) {
		log.WithField("path", pathName).Debugln("path does not exist, creating")
		if err := os.MkdirAll(pathName, 0755); err != nil {
			return err
		}
	}
	return nil
}

// FileExists reports whether pathName can be stat'ed.
func FileExists(pathName string) bool {
	_, err := os.Stat(pathName)
	return err == nil
}
