package app

import (
	log "github.com/sirupsen/logrus"
)

// GormLogger sends gorm's query log through logrus at debug level.
type GormLogger struct{}

func (*GormLogger) Print(v ...interface{}) {
	if len(v) == 0 {
		return
	}
	switch v[0] {
	case "sql":
		if len(v) < 6 {
			break
		}
		log.WithFields(log.Fields{
			"source":   v[1],
			"duration": v[2],
			"rows":     v[5],
		}).Debugln(v[3])
		return
	case "log":
		if len(v) < 3 {
			break
		}
		log.WithField("source", v[1]).Debugln(v[2:]...)
		return
	}
	log.Debugln(v...)
}
