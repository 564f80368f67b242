package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	eventEntry(requestID, module, action).Info(message)
}

// LogWarn is LogEvent for degraded paths that were recovered.
func LogWarn(requestID, module, action, message string) {
	eventEntry(requestID, module, action).Warn(message)
}

// LogError is LogEvent for aborted operations.
func LogError(requestID, module, action string, err error) {
	eventEntry(requestID, module, action).WithError(err).Error("operation aborted")
}

func eventEntry(requestID, module, action string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	})
}
