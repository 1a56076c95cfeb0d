package helpers

import (
	"os"
	"path"

	"github.com/snowzach/rotatefilehook"
	log "github.com/sirupsen/logrus"
)

// InitLoggers sets the default logger options. Logs go to stdout and to a
// size-rotated file in LogPath.
func InitLoggers(level log.Level) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(level)

	if err := EnsurePath(LogPath()); err != nil {
		log.WithError(err).Warnln("could not create log directory, only logging to stdout")
		return
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path.Join(LogPath(), "olaris-variants.log"),
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     28,
		Level:      log.DebugLevel,
		Formatter:  &log.JSONFormatter{},
	})
	if err != nil {
		log.WithError(err).Warnln("tried opening logfile for writing but got an error instead, only logging to stdout")
		return
	}
	log.AddHook(hook)
}
