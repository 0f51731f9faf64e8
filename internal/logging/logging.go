// Package logging wires the pool's caller-provided sink onto logrus.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.RWMutex
	current *logrus.Logger = logrus.StandardLogger()
)

// Set installs l as the process-wide sink for dpool log output. A nil l
// resets to logrus's standard logger.
func Set(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = logrus.StandardLogger()
	}
	current = l
}

// Get returns the currently installed sink.
func Get() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// With returns an entry pre-populated with fields, using the current sink.
func With(fields logrus.Fields) *logrus.Entry {
	return Get().WithFields(fields)
}
