package stackclient

import (
	"sort"

	"github.com/go-logr/logr"

	"github.com/fivetwenty-io/stackla-go/pkg/stackla"
)

// debugVerbosity is the logr V-level used for Debug messages.
const debugVerbosity = 1

type logrLogger struct {
	logger logr.Logger
}

// NewLogrLogger adapts a logr.Logger to stackla.Logger. Debug maps to V(1);
// warnings are logged at V(0) with a "warning" key.
func NewLogrLogger(logger logr.Logger) stackla.Logger {
	return &logrLogger{logger: logger}
}

func (l *logrLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.V(debugVerbosity).Info(msg, keysAndValues(fields)...)
}

func (l *logrLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, keysAndValues(fields)...)
}

func (l *logrLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, append(keysAndValues(fields), "warning", true)...)
}

func (l *logrLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(nil, msg, keysAndValues(fields)...)
}

func keysAndValues(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]interface{}, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, key, fields[key])
	}

	return pairs
}
