package messaging

import "context"

// Client defines an interface for sending outbound messages through a chat
// transport (Telegram, WhatsApp). This decouples the application logic from
// the specific provider library.
type Client interface {
	// SendText delivers a plain-text message to the given chat and returns
	// the provider's message id when available.
	SendText(ctx context.Context, chatID string, text string) (messageID string, err error)
}
