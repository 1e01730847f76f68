// Package loggertest provides an in-memory logger for asserting on log output in tests.
package loggertest

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
)

// New returns a logger that records entries at or above level, and the recorded entries.
func New(level string) (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(logger.ParseLevel(level))
	return logger.NewFromZap(zap.New(core)), logs
}
