// internal/infra/delivery/sender.go
package delivery

import (
	"context"
	"time"

	"finance_assistant_bot/internal/domain/messaging"

	"github.com/sirupsen/logrus"
)

// MaxAttempts is the delivery attempt ceiling per message.
const MaxAttempts = 3

// Result is the outcome of one delivery, returned to the caller for
// analytics emission. The sender never lets an error escape; failures are
// reported here.
type Result struct {
	Success       bool
	MessageID     string
	Attempts      int
	Err           error
	ErrorCategory string
}

// BackoffFunc returns how long to wait before the next attempt, given the
// attempt number that just failed (1-based).
type BackoffFunc func(attempt int) time.Duration

// DefaultBackoff waits 1s after the first failure and 5s after the second.
func DefaultBackoff(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 5 * time.Second
}

// Sender delivers messages through a transport with retry on transient
// failures. Permanent failures abort immediately.
type Sender struct {
	client  messaging.Client
	backoff BackoffFunc
	logger  *logrus.Entry
}

func NewSender(client messaging.Client, backoff BackoffFunc, logger *logrus.Entry) *Sender {
	if backoff == nil {
		backoff = DefaultBackoff
	}
	return &Sender{client: client, backoff: backoff, logger: logger}
}

// Send attempts delivery up to MaxAttempts times. The retry loop is
// sequential per message; the wait between attempts respects ctx
// cancellation.
func (s *Sender) Send(ctx context.Context, chatID string, text string) Result {
	var lastErr error

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		messageID, err := s.client.SendText(ctx, chatID, text)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"chat_id": chatID,
				"attempt": attempt,
			}).Info("Message delivered")
			return Result{Success: true, MessageID: messageID, Attempts: attempt}
		}

		lastErr = err
		category := Category(err)
		s.logger.WithFields(logrus.Fields{
			"chat_id":        chatID,
			"attempt":        attempt,
			"error_category": category,
		}).WithError(err).Warn("Message delivery attempt failed")

		if !IsTransient(err) {
			s.logger.WithField("chat_id", chatID).Error("Permanent delivery failure, not retrying")
			return Result{Success: false, Attempts: attempt, Err: err, ErrorCategory: category}
		}
		if attempt == MaxAttempts {
			break
		}

		select {
		case <-time.After(s.backoff(attempt)):
		case <-ctx.Done():
			return Result{Success: false, Attempts: attempt, Err: ctx.Err(), ErrorCategory: Category(ctx.Err())}
		}
	}

	return Result{Success: false, Attempts: MaxAttempts, Err: lastErr, ErrorCategory: Category(lastErr)}
}
