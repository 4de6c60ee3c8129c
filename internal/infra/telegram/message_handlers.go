// internal/infra/telegram/message_handlers.go
package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"finance_assistant_bot/internal/app"
	"finance_assistant_bot/internal/domain/user"
	idb "finance_assistant_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// commandEndpoints lists every slash command the bot answers. Telebot routes
// commands separately from plain text, so each one is registered to the same
// handler that feeds the parsing cascade.
var commandEndpoints = []string{
	"/start", "/help", "/ajuda",
	"/report", "/relatorio",
	"/statement", "/fatura",
	"/budget", "/orcamento",
	"/expenses", "/gastos",
	"/categories", "/categorias",
	"/cards", "/cartoes",
	"/recurring", "/recorrentes",
	"/installments", "/parcelas",
	"/delete", "/apagar",
	"/language", "/idioma",
	"/closing", "/fechamento",
	"/statement_reminders", "/lembretes_fatura",
	"/due_reminders", "/lembretes_vencimento",
}

// RegisterMessageHandlers wires every inbound Telegram message into the
// intent service. Users are created on first contact.
func RegisterMessageHandlers(
	ctx context.Context,
	b *telebot.Bot,
	intents *app.IntentService,
	userRepo user.Repository,
	defaultLocale string,
	baseLogger *logrus.Entry,
) {
	handle := func(c telebot.Context) error {
		sender := c.Sender()
		logCtx := baseLogger.WithFields(logrus.Fields{
			"sender_id": sender.ID,
			"chat_id":   c.Chat().ID,
		})

		profile, err := getOrCreateProfile(ctx, userRepo, sender, defaultLocale)
		if err != nil {
			logCtx.WithError(err).Error("Failed to resolve user profile")
			return c.Send("Algo deu errado 😕 Tente novamente em instantes.")
		}

		text := c.Text()
		logCtx.WithField("user_id", profile.ID).Debug("Processing message")

		reply := intents.HandleMessage(ctx, profile, text)
		return c.Send(reply)
	}

	for _, endpoint := range commandEndpoints {
		b.Handle(endpoint, handle)
	}
	b.Handle(telebot.OnText, handle)
}

func getOrCreateProfile(ctx context.Context, repo user.Repository, sender *telebot.User, defaultLocale string) (*user.Profile, error) {
	profile, err := repo.GetByTelegramID(ctx, sender.ID)
	if err == nil {
		return profile, nil
	}
	if err != idb.ErrUserNotFound {
		return nil, fmt.Errorf("failed to look up user by telegram id: %w", err)
	}

	locale := defaultLocale
	switch sender.LanguageCode {
	case "pt", "pt-br", "pt-BR":
		locale = "pt-BR"
	case "en":
		locale = "en"
	}

	profile = &user.Profile{
		TelegramID:                sql.NullInt64{Int64: sender.ID, Valid: true},
		FirstName:                 sender.FirstName,
		Locale:                    locale,
		StatementRemindersEnabled: true,
		DueRemindersEnabled:       true,
		IsActive:                  true,
	}
	if err := repo.Create(ctx, profile); err != nil {
		// A concurrent first message may have created the row already.
		if err == idb.ErrDuplicateTelegramID {
			return repo.GetByTelegramID(ctx, sender.ID)
		}
		return nil, fmt.Errorf("failed to create user %s: %w", strconv.FormatInt(sender.ID, 10), err)
	}
	return profile, nil
}
