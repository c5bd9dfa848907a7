package config

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ConfigureLogging applies the log level and format to logger. An unknown
// level falls back to info.
func ConfigureLogging(logger *logrus.Logger, cfg LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, LogFormatJSON) {
		logger.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
