package utils

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GenerateTraceId returns a fresh correlation id for a request.
func GenerateTraceId() string {
	return uuid.New().String()
}

func serviceName() string {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "mindwell-server"
	}
	return service
}

func logEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	default:
		entry.Info(message)
	}
}

// LogMessage logs a message outside any request scope.
func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName(),
	})

	logEntry(entry, level, message)
}

// LogMessageWithFields logs a message with the request's trace id attached.
func LogMessageWithFields(c *gin.Context, level, message string) {
	traceId, _ := c.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": serviceName(),
	})

	logEntry(entry, level, message)
}
