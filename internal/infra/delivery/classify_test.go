package delivery

import (
	"errors"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", errors.New("ETIMEDOUT"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"socket hang up", errors.New("socket hang up"), true},
		{"rate limit", errors.New("429 Too Many Requests"), true},
		{"unavailable", errors.New("HTTP 503 Service Unavailable"), true},
		{"generic network", errors.New("network error"), true},
		{"unauthorized", errors.New("401 Unauthorized"), false},
		{"forbidden", errors.New("403 Forbidden: bot was blocked by the user"), false},
		{"not found", errors.New("404 Not Found"), false},
		{"bad request", errors.New("400 Bad Request"), false},
		{"invalid number", errors.New("invalid number supplied"), false},
		{"session expired", errors.New("session expired, re-authenticate"), false},
		{"credentials", errors.New("bad credentials"), false},
		{"nil error is permanent", nil, false},
		// Default-transient policy for unrecognized errors.
		{"novel message", errors.New("totally novel message"), true},
	}
	for _, c := range cases {
		if got := IsTransient(c.err); got != c.want {
			t.Errorf("%s: IsTransient(%v) = %v, want %v", c.name, c.err, got, c.want)
		}
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, CategoryNone},
		{errors.New("ETIMEDOUT"), CategoryTimeout},
		{errors.New("connection refused"), CategoryConnection},
		{errors.New("429 rate limited"), CategoryRateLimit},
		{errors.New("503"), CategoryUnavailable},
		{errors.New("401 Unauthorized"), CategoryAuth},
		{errors.New("user has blocked the bot"), CategoryBlocked},
		{errors.New("invalid number"), CategoryInvalidNumber},
		{errors.New("something else entirely"), CategoryUnknown},
		// Permanent classification wins over a transient keyword in the same message.
		{errors.New("network error: 401 unauthorized"), CategoryAuth},
	}
	for _, c := range cases {
		if got := Category(c.err); got != c.want {
			t.Errorf("Category(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
