// internal/infra/logger/logger.go
package logger

import (
	"os"
	"strings"

	"finance_assistant_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components derive contextual entries from
// it via WithField("component", ...).
var Log = logrus.New()

// Init configures Log from the loaded application config. Anything that is
// not a development environment logs JSON for the log shipper; development
// keeps the colored text formatter.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
		Log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	Log.SetLevel(level)

	if strings.ToLower(cfg.Environment) == "development" {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	Log.WithFields(logrus.Fields{
		"level":       Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Info("Logger initialized")
}
