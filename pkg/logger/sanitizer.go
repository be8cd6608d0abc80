package logger

import (
	"regexp"
)

// Sensitive field patterns to filter from log output before it leaves the
// process. Denial and validation messages must stay generic, so anything
// resembling a credential or an email is redacted.
var (
	tokenPattern  = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`)
	secretPattern = regexp.MustCompile(`(?i)(password|secret|private[_-]?key)[\s:=]+[^\s]+`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

const redactedPlaceholder = "[REDACTED]"

// Sanitize removes sensitive information from a log message.
func Sanitize(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = emailPattern.ReplaceAllString(message, redactedPlaceholder)
	return message
}
