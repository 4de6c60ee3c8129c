package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance_assistant_bot/internal/app"
	"finance_assistant_bot/internal/domain/intent"
	"finance_assistant_bot/internal/infra/config"
	idb "finance_assistant_bot/internal/infra/database"
	"finance_assistant_bot/internal/infra/delivery"
	"finance_assistant_bot/internal/infra/llm"
	"finance_assistant_bot/internal/infra/logger"
	"finance_assistant_bot/internal/infra/nlp"
	"finance_assistant_bot/internal/infra/pending"
	"finance_assistant_bot/internal/infra/scheduler"
	"finance_assistant_bot/internal/infra/semcache"
	"finance_assistant_bot/internal/infra/telegram"
	"finance_assistant_bot/internal/infra/whatsapp"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Finance Assistant Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Log.WithField("component", "main")
	mainLogger.WithField("environment", cfg.Environment).Info("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	// Repositories
	userRepo := idb.NewPostgresUserRepository(db)
	txRepo := idb.NewPostgresTransactionRepository(db)
	categoryRepo := idb.NewPostgresCategoryRepository(db)
	budgetRepo := idb.NewPostgresBudgetRepository(db)
	methodRepo := idb.NewPostgresPaymentMethodRepository(db)
	recurringRepo := idb.NewPostgresRecurringRepository(db)
	installmentRepo := idb.NewPostgresInstallmentRepository(db)
	reminderRepo := idb.NewPostgresReminderRepository(db)
	patternRepo := idb.NewPostgresPatternRepository(db)

	// Parsing cascade: commands, learned patterns, local heuristics,
	// semantic cache, then the LLM.
	semCache, err := semcache.New(24 * time.Hour)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create semantic cache")
	}
	defer semCache.Close()

	stages := []intent.Stage{
		intent.NewCommandStage(),
		intent.NewPatternStage(patternRepo, logger.Log.WithField("component", "pattern_stage")),
		nlp.NewParser(),
		semCache,
	}
	if cfg.GeminiAPIKey != "" {
		geminiParser, err := llm.NewParser(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, semCache, logger.Log.WithField("component", "llm"))
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Gemini parser")
		}
		stages = append(stages, geminiParser)
	} else {
		mainLogger.Warn("GEMINI_API_KEY not set, running without the LLM stage")
	}
	cascade := intent.NewCascade(logger.Log.WithField("component", "cascade"), stages...)

	// Services
	pendingStore := pending.NewStore(5 * time.Minute)
	defer pendingStore.Close()

	reports := app.NewReportService(txRepo, logger.Log.WithField("component", "reports"))
	intents := app.NewIntentService(
		cascade, patternRepo,
		userRepo, txRepo, categoryRepo, budgetRepo, methodRepo, recurringRepo, installmentRepo,
		reports, pendingStore,
		cfg.DefaultClosingDay,
		logger.Log.WithField("component", "intents"),
	)

	waClient := whatsapp.NewCloudAPIClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneID)
	sender := delivery.NewSender(waClient, delivery.DefaultBackoff, logger.Log.WithField("component", "delivery"))
	reminders := app.NewReminderService(
		methodRepo, userRepo, reminderRepo, reports, sender,
		cfg.ReminderLeadDays, cfg.DefaultClosingDay,
		logger.Log.WithField("component", "reminders"),
	)
	recurringSvc := app.NewRecurringService(recurringRepo, txRepo, logger.Log.WithField("component", "recurring"))

	// Scheduler
	sched := scheduler.NewScheduler(
		reminders, recurringSvc, reminders,
		logger.Log.WithField("component", "scheduler"),
		cfg.CronSpecStatementCheck,
		cfg.CronSpecDueCheck,
		cfg.CronSpecRecurring,
		cfg.CronSpecWeeklyReport,
	)
	sched.Start()

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	telegram.RegisterMessageHandlers(ctx, bot, intents, userRepo, cfg.DefaultLocale, logger.Log.WithField("component", "telegram"))
	mainLogger.Info("Message handlers registered")

	go bot.Start()
	mainLogger.Info("Application setup complete, bot and scheduler running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	sched.Stop()
	cancel()
	mainLogger.Info("Application shut down gracefully")
}
