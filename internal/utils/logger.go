package utils

import (
	"log"
	"strings"
)

// LogEvent writes one tagged gateway log line. A missing request id is
// rendered as "-" so the column stays greppable; message should be a short
// summary, never a payload.
func LogEvent(requestID, module, action, message string) {
	rid := strings.TrimSpace(requestID)
	if rid == "" {
		rid = "-"
	}
	log.Printf("[GW:%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, rid, message)
}
