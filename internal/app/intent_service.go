// internal/app/intent_service.go
package app

import (
	"context"
	"strings"
	"time"

	"finance_assistant_bot/internal/domain/budget"
	"finance_assistant_bot/internal/domain/category"
	"finance_assistant_bot/internal/domain/installment"
	"finance_assistant_bot/internal/domain/intent"
	"finance_assistant_bot/internal/domain/paymentmethod"
	"finance_assistant_bot/internal/domain/recurring"
	"finance_assistant_bot/internal/domain/transaction"
	"finance_assistant_bot/internal/domain/user"
	"finance_assistant_bot/internal/infra/pending"

	"github.com/sirupsen/logrus"
)

// handlerFunc executes one resolved intent for one user and returns the
// reply text. Errors are translated to a localized failure message by the
// dispatcher; they never reach the transport as raw errors.
type handlerFunc func(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error)

// IntentService resolves free text into an intent and dispatches it to the
// matching domain handler.
type IntentService struct {
	cascade         *intent.Cascade
	patternRepo     intent.PatternRepository
	userRepo        user.Repository
	txRepo          transaction.Repository
	categoryRepo    category.Repository
	budgetRepo      budget.Repository
	methodRepo      paymentmethod.Repository
	recurringRepo   recurring.Repository
	installmentRepo installment.Repository
	reports         *ReportService
	pendingStore    *pending.Store
	logger          *logrus.Entry
	now             func() time.Time

	// Closing day assumed for statement summaries when the user has no
	// card with one configured.
	defaultClosingDay int

	handlers map[intent.Action]handlerFunc
}

func NewIntentService(
	cascade *intent.Cascade,
	patternRepo intent.PatternRepository,
	userRepo user.Repository,
	txRepo transaction.Repository,
	categoryRepo category.Repository,
	budgetRepo budget.Repository,
	methodRepo paymentmethod.Repository,
	recurringRepo recurring.Repository,
	installmentRepo installment.Repository,
	reports *ReportService,
	pendingStore *pending.Store,
	defaultClosingDay int,
	logger *logrus.Entry,
) *IntentService {
	s := &IntentService{
		cascade:           cascade,
		patternRepo:       patternRepo,
		userRepo:          userRepo,
		txRepo:            txRepo,
		categoryRepo:      categoryRepo,
		budgetRepo:        budgetRepo,
		methodRepo:        methodRepo,
		recurringRepo:     recurringRepo,
		installmentRepo:   installmentRepo,
		reports:           reports,
		pendingStore:      pendingStore,
		defaultClosingDay: defaultClosingDay,
		logger:            logger,
		now:               time.Now,
	}

	s.handlers = map[intent.Action]handlerFunc{
		intent.ActionAddExpense:        s.handleAddTransaction,
		intent.ActionAddIncome:         s.handleAddTransaction,
		intent.ActionListExpenses:      s.handleListExpenses,
		intent.ActionDeleteTransaction: s.handleDeleteTransaction,
		intent.ActionSetBudget:         s.handleSetBudget,
		intent.ActionGetBudget:         s.handleGetBudget,
		intent.ActionBudgetStatus:      s.handleBudgetStatus,
		intent.ActionAddCategory:       s.handleAddCategory,
		intent.ActionListCategories:    s.handleListCategories,
		intent.ActionAddPaymentMethod:  s.handleAddPaymentMethod,
		intent.ActionListPaymentMeths:  s.handleListPaymentMethods,
		intent.ActionSetClosingDay:     s.handleSetClosingDay,
		intent.ActionCreateInstallment: s.handleCreateInstallment,
		intent.ActionListInstallments:  s.handleListInstallments,
		intent.ActionAddRecurring:      s.handleAddRecurring,
		intent.ActionListRecurring:     s.handleListRecurring,
		intent.ActionCancelRecurring:   s.handleCancelRecurring,
		intent.ActionMonthlyReport:     s.handleMonthlyReport,
		intent.ActionStatementSummary:  s.handleStatementSummary,
		intent.ActionEnableStmtRem:     s.handleToggleReminders,
		intent.ActionDisableStmtRem:    s.handleToggleReminders,
		intent.ActionEnableDueRem:      s.handleToggleReminders,
		intent.ActionDisableDueRem:     s.handleToggleReminders,
		intent.ActionSetLocale:         s.handleSetLocale,
		intent.ActionHelp:              s.handleHelp,
	}
	return s
}

// HandleMessage is the chat entry point: pending confirmations first, then
// the parser cascade, then dispatch. The returned string is always safe to
// send to the user.
func (s *IntentService) HandleMessage(ctx context.Context, profile *user.Profile, text string) string {
	logCtx := s.logger.WithField("user_id", profile.ID)

	if reply, handled := s.resolvePendingConfirmation(ctx, profile, text); handled {
		return reply
	}

	msg := &intent.Message{UserID: profile.ID, Text: text, Locale: profile.Locale}
	resolved := s.cascade.Resolve(ctx, msg)

	logCtx.WithFields(logrus.Fields{
		"action":   resolved.Action,
		"strategy": resolved.Strategy,
	}).Info("Executing intent")

	reply := s.Execute(ctx, profile, resolved)

	// Remember LLM-resolved phrasings so the learned-pattern stage answers
	// them next time. Advisory: failures are logged and swallowed.
	if resolved.Strategy == "llm" && resolved.Action != intent.ActionUnknown {
		go s.learnPattern(profile.ID, text, resolved)
	}

	return reply
}

// Execute dispatches an already-resolved intent.
func (s *IntentService) Execute(ctx context.Context, profile *user.Profile, in *intent.Intent) string {
	handler, ok := s.handlers[in.Action]
	if !ok {
		return msgUnknownCommand(profile.Locale)
	}

	reply, err := handler(ctx, profile, in)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": profile.ID,
			"action":  in.Action,
		}).WithError(err).Error("Intent handler failed")
		return msgSomethingWentWrong(profile.Locale)
	}
	return reply
}

func (s *IntentService) resolvePendingConfirmation(ctx context.Context, profile *user.Profile, text string) (string, bool) {
	normalized := intent.Normalize(text)
	isYes := normalized == "sim" || normalized == "yes" || normalized == "s" || normalized == "y"
	isNo := normalized == "não" || normalized == "nao" || normalized == "no" || normalized == "n"
	if !isYes && !isNo {
		return "", false
	}

	entry, ok := s.pendingStore.Take(profile.ID)
	if !ok {
		return "", false
	}
	if isNo {
		return msgDeleteCancelled(profile.Locale), true
	}

	switch entry.Kind {
	case pending.KindDeleteConfirmation:
		uuid := entry.Payload["uuid"]
		if err := s.txRepo.DeleteByUUID(ctx, profile.ID, uuid); err != nil {
			s.logger.WithField("user_id", profile.ID).WithError(err).Error("Failed to delete confirmed transaction")
			return msgSomethingWentWrong(profile.Locale), true
		}
		return msgDeleted(profile.Locale), true
	}
	return msgSomethingWentWrong(profile.Locale), true
}

func (s *IntentService) learnPattern(userID int64, text string, in *intent.Intent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pattern := &intent.Pattern{
		UserID:     userID,
		Normalized: intent.Normalize(text),
		Action:     in.Action,
		Entities:   in.Entities,
	}
	if err := s.patternRepo.Save(ctx, pattern); err != nil {
		s.logger.WithField("user_id", userID).WithError(err).Warn("Failed to save learned intent pattern")
	}
}

// resolvePaymentMethod finds the method named in the intent, or falls back
// to the learned per-category preference when none was supplied.
func (s *IntentService) resolvePaymentMethod(ctx context.Context, profile *user.Profile, in *intent.Intent) *paymentmethod.PaymentMethod {
	if name := in.Entity(intent.EntityPaymentMethod); name != "" {
		pm, err := s.methodRepo.GetByName(ctx, profile.ID, name)
		if err == nil {
			return pm
		}
		s.logger.WithFields(logrus.Fields{
			"user_id": profile.ID,
			"name":    name,
		}).Debug("Payment method name did not resolve, trying learned preference")
	}

	categoryName := in.Entity(intent.EntityCategory)
	if categoryName == "" {
		return nil
	}
	pm, err := s.methodRepo.GetPreferredForCategory(ctx, profile.ID, categoryName)
	if err != nil {
		return nil
	}
	return pm
}

// recordMethodPreference persists one observed (category → payment method)
// pairing for future auto-fill. Fire-and-forget: never blocks the reply.
func (s *IntentService) recordMethodPreference(userID int64, categoryName string, methodID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.methodRepo.RecordPreference(ctx, userID, categoryName, methodID); err != nil {
			s.logger.WithFields(logrus.Fields{
				"user_id":  userID,
				"category": categoryName,
			}).WithError(err).Warn("Failed to record payment method preference")
		}
	}()
}

func normalizeCategoryName(raw string) string {
	name := strings.TrimSpace(strings.ToLower(raw))
	if name == "" {
		return "outros"
	}
	return name
}
