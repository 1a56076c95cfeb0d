// Package utils holds helpers for the dependency container.
package utils

import (
	"fmt"

	"github.com/goava/di"
	log "github.com/sirupsen/logrus"
)

// MustResolve resolves into from c and exits if that is not possible, as the
// CLI cannot run with a partially built container.
func MustResolve(c *di.Container, into interface{}, options ...di.ResolveOption) {
	if err := c.Resolve(into, options...); err != nil {
		log.WithError(err).WithField("type", fmt.Sprintf("%T", into)).Fatalln("could not resolve dependency")
	}
}
