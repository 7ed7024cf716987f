package utils

import (
	"log"
	"strings"
)

// LogEvent writes one line per event: module tag, action, request id and a
// short message. Keep payload details and personal data out of the message.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}
