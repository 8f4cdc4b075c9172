package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the process logger: level from config or LOG_LEVEL,
// JSON in production, colored text in development.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)
	return log
}

// WithTrend tags log entries with trend context.
func WithTrend(log *logrus.Logger, trendID string) *logrus.Entry {
	return log.WithField("trend_id", trendID)
}

// WithGame tags log entries with scheduled-game context.
func WithGame(log *logrus.Logger, gameID string, sport string) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"game_id": gameID,
		"sport":   sport,
	})
}
