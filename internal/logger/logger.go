package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/previdsoft/procsync/internal/env"
)

// New builds the service logger. LOG_LEVEL accepts any logrus level name;
// LOG_FORMAT=text switches off the JSON formatter used in production.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(env.GetString("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if env.GetString("LOG_FORMAT", "json") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}
