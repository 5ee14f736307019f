// Package logging scrubs credentials and tokens from strings before they
// reach a log line.
package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// key=value DSN secrets: password=xxx, pwd=xxx, pass=xxx
	passwordPattern = regexp.MustCompile(`(?i)\b(password|pwd|pass)=('[^']*'|[^;&\s]+)`)

	// URL credentials; the greedy password match tolerates '@' in passwords.
	urlCredentialsPattern = regexp.MustCompile(`://([^:/@\s]+):[^\s]*@([^/@\s]+)`)

	// Bearer tokens and bare JWTs (three base64url segments).
	bearerPattern = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-_.]+`)
	jwtPattern    = regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]*`)
)

// SanitizeConnectionString hides the password in a PostgreSQL connection
// string, in either keyword/value or URL form. User and host stay visible.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	return urlCredentialsPattern.ReplaceAllString(sanitized, "://${1}:"+RedactedText+"@${2}")
}

// SanitizeError returns err's message with credentials and tokens removed.
// Use this before logging any store or auth error.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := SanitizeConnectionString(err.Error())
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	return jwtPattern.ReplaceAllString(sanitized, RedactedText)
}
