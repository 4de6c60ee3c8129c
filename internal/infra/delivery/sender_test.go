package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// scriptedClient fails with the queued errors in order, then succeeds.
type scriptedClient struct {
	errs  []error
	calls int
}

func (c *scriptedClient) SendText(ctx context.Context, chatID, text string) (string, error) {
	c.calls++
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		return "", err
	}
	return "msg-1", nil
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func noWait(int) time.Duration { return 0 }

func TestSend_SucceedsFirstAttempt(t *testing.T) {
	client := &scriptedClient{}
	s := NewSender(client, noWait, testLogger())

	res := s.Send(context.Background(), "123", "oi")
	if !res.Success || res.Attempts != 1 {
		t.Errorf("got %+v, want success on attempt 1", res)
	}
	if res.MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want msg-1", res.MessageID)
	}
}

func TestSend_RetriesTransientThenSucceeds(t *testing.T) {
	client := &scriptedClient{errs: []error{
		errors.New("ETIMEDOUT"),
		errors.New("connection reset by peer"),
	}}
	s := NewSender(client, noWait, testLogger())

	res := s.Send(context.Background(), "123", "oi")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
}

func TestSend_PermanentErrorAbortsImmediately(t *testing.T) {
	client := &scriptedClient{errs: []error{errors.New("403 Forbidden: bot was blocked by the user")}}
	s := NewSender(client, noWait, testLogger())

	res := s.Send(context.Background(), "123", "oi")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1 (no retry on permanent error)", res.Attempts)
	}
	if client.calls != 1 {
		t.Errorf("client called %d times, want 1", client.calls)
	}
	if res.ErrorCategory != CategoryBlocked {
		t.Errorf("ErrorCategory = %q, want %q", res.ErrorCategory, CategoryBlocked)
	}
}

func TestSend_GivesUpAfterMaxAttempts(t *testing.T) {
	client := &scriptedClient{errs: []error{
		errors.New("timeout"),
		errors.New("timeout"),
		errors.New("timeout"),
	}}
	s := NewSender(client, noWait, testLogger())

	res := s.Send(context.Background(), "123", "oi")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Attempts != MaxAttempts {
		t.Errorf("Attempts = %d, want %d", res.Attempts, MaxAttempts)
	}
	if res.Err == nil || res.ErrorCategory != CategoryTimeout {
		t.Errorf("got err=%v category=%q, want timeout error surfaced", res.Err, res.ErrorCategory)
	}
}

func TestDefaultBackoff_GrowsWithAttempt(t *testing.T) {
	if DefaultBackoff(1) >= DefaultBackoff(2) {
		t.Errorf("backoff should grow: attempt1=%v attempt2=%v", DefaultBackoff(1), DefaultBackoff(2))
	}
}
