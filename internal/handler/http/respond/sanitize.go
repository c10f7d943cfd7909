package respond

import "regexp"

var (
	// Admin API keys passed via the X-Admin-Key header.
	adminKeyPattern = regexp.MustCompile(`(?i)(admin[-_ ]?key[=: ]+)\S+`)

	// Credentials embedded in connection URLs (DATABASE_URL, REDIS_URL).
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked so it
// can be logged safely.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = adminKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
