// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup sets the level from LOG_LEVEL and picks a JSON formatter in production,
// a text formatter with full timestamps otherwise.
func Setup(level, env string) {
	log.SetOutput(os.Stdout)

	if env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		log.WithField("level", level).Warn("Unknown LOG_LEVEL, falling back to info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Component returns an entry tagged with the component name
func Component(name string) *log.Entry {
	return log.WithField("component", name)
}
