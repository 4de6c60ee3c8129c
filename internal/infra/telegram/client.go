// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the messaging.Client interface using the
// gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendText sends a text message to the chat. chatID is the numeric Telegram
// chat id in string form.
func (tba *TelebotAdapter) SendText(_ context.Context, chatID string, text string) (string, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}

	msg, err := tba.bot.Send(&telebot.User{ID: id}, text)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(msg.ID), nil
}
