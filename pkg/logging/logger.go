// Package logging configures the shared logrus logger.
package logging

import (
	"github.com/sirupsen/logrus"

	"kwallo/pkg/config"
)

// Logger is the logger type passed around the service.
type Logger = *logrus.Logger

// Fields attaches structured fields to a log entry.
type Fields = logrus.Fields

// serviceHook stamps every entry with the emitting service name.
type serviceHook struct {
	name string
}

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.name
	return nil
}

// NewLogger returns a JSON logger at the level set by LOG_LEVEL.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(config.GetLogLevel())
	return logger
}

// NewLoggerWithService returns a logger whose entries all carry the
// service name.
func NewLoggerWithService(serviceName string) *logrus.Logger {
	logger := NewLogger()
	logger.AddHook(serviceHook{name: serviceName})
	return logger
}
