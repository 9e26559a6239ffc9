package utils

import (
	"log"
	"strings"
)

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

// LogError is LogEvent for failures that end up as a generic 500.
func LogError(requestID, module, action string, err error) {
	if err == nil {
		return
	}
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s error=%v", strings.ToUpper(module), action, req, err)
}
