// internal/infra/delivery/classify.go
package delivery

import "strings"

// Error categories reported back to callers for logging and analytics.
const (
	CategoryNone          = "none"
	CategoryTimeout       = "timeout"
	CategoryConnection    = "connection"
	CategoryRateLimit     = "rate_limit"
	CategoryUnavailable   = "unavailable"
	CategoryNetwork       = "network"
	CategoryBlocked       = "blocked"
	CategoryAuth          = "auth"
	CategoryNotFound      = "not_found"
	CategoryBadRequest    = "bad_request"
	CategoryInvalidNumber = "invalid_number"
	CategoryUnknown       = "unknown"
)

// Substring matching against the error text, checked in order. Permanent
// patterns are checked first so that e.g. "401" wins over a message that
// also happens to mention "network".
var permanentPatterns = []struct {
	substr   string
	category string
}{
	{"blocked", CategoryBlocked},
	{"401", CategoryAuth},
	{"403", CategoryAuth},
	{"authentication", CategoryAuth},
	{"session expired", CategoryAuth},
	{"credentials", CategoryAuth},
	{"404", CategoryNotFound},
	{"400", CategoryBadRequest},
	{"invalid number", CategoryInvalidNumber},
}

var transientPatterns = []struct {
	substr   string
	category string
}{
	{"timeout", CategoryTimeout},
	{"timed out", CategoryTimeout},
	{"etimedout", CategoryTimeout},
	{"connection refused", CategoryConnection},
	{"connection reset", CategoryConnection},
	{"econnreset", CategoryConnection},
	{"socket hang up", CategoryConnection},
	{"rate limit", CategoryRateLimit},
	{"too many requests", CategoryRateLimit},
	{"429", CategoryRateLimit},
	{"503", CategoryUnavailable},
	{"service unavailable", CategoryUnavailable},
	{"network", CategoryNetwork},
}

// IsTransient reports whether the error is worth retrying. Unrecognized
// errors default to transient: a wasted retry is preferred over silently
// dropping a deliverable message. A nil error is the asymmetric case and
// classifies as NOT transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range permanentPatterns {
		if strings.Contains(msg, p.substr) {
			return false
		}
	}
	return true
}

// Category maps an error to a coarse category string for logging.
func Category(err error) string {
	if err == nil {
		return CategoryNone
	}
	msg := strings.ToLower(err.Error())
	for _, p := range permanentPatterns {
		if strings.Contains(msg, p.substr) {
			return p.category
		}
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p.substr) {
			return p.category
		}
	}
	return CategoryUnknown
}
