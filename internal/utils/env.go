package utils

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// GetEnv returns the value of the environment variable specified by key, if the variable is set.
func GetEnv(key string) (string, error) {
	if key == "" {
		log.Debug("Key is empty")
		return "", argError{"empty argument"}
	}

	val, ok := os.LookupEnv(key)
	if !ok {
		return "", envVarError{key, "environment variable not found"}
	}

	if strings.TrimSpace(val) == "" {
		return "", envVarError{key, "environment variable is empty"}
	}

	return val, nil
}

// ParseLogLevel maps the names accepted in IDCTL_LOG_LEVEL to a logrus level.
func ParseLogLevel(raw string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return log.TraceLevel, true
	case "debug":
		return log.DebugLevel, true
	case "info":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	case "fatal", "off", "none":
		return log.FatalLevel, true
	default:
		return log.WarnLevel, false
	}
}
