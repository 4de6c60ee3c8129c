// internal/app/reminder_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"finance_assistant_bot/internal/domain/billing"
	"finance_assistant_bot/internal/domain/paymentmethod"
	"finance_assistant_bot/internal/domain/reminder"
	"finance_assistant_bot/internal/domain/user"
	"finance_assistant_bot/internal/infra/delivery"

	"github.com/sirupsen/logrus"
)

// reminderBatchSize caps how many users are messaged concurrently per wave.
const reminderBatchSize = 10

// ReminderService finds payment methods whose statement closes or payment
// falls due a configurable number of days ahead and messages the owners on
// WhatsApp. Users without a reachable WhatsApp identifier, or who opted out
// of the reminder kind, are skipped.
type ReminderService struct {
	methodRepo        paymentmethod.Repository
	userRepo          user.Repository
	sentRepo          reminder.Repository
	reports           *ReportService
	sender            *delivery.Sender
	leadDays          int
	defaultClosingDay int // used when a card has no closing day of its own
	logger            *logrus.Entry
	now               func() time.Time
}

func NewReminderService(
	methodRepo paymentmethod.Repository,
	userRepo user.Repository,
	sentRepo reminder.Repository,
	reports *ReportService,
	sender *delivery.Sender,
	leadDays int,
	defaultClosingDay int,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		methodRepo:        methodRepo,
		userRepo:          userRepo,
		sentRepo:          sentRepo,
		reports:           reports,
		sender:            sender,
		leadDays:          leadDays,
		defaultClosingDay: defaultClosingDay,
		logger:            logger,
		now:               time.Now,
	}
}

// SendStatementClosingReminders messages every eligible user whose card
// statement closes leadDays from today.
func (s *ReminderService) SendStatementClosingReminders(ctx context.Context) error {
	target := s.now().AddDate(0, 0, s.leadDays)
	methods, err := s.listMethodsForDay(ctx, target, s.methodRepo.ListByClosingDay)
	if err != nil {
		return fmt.Errorf("failed to list methods by closing day: %w", err)
	}
	return s.dispatch(ctx, reminder.KindStatementClosing, target, methods)
}

// SendPaymentDueReminders messages every eligible user whose card payment
// is due leadDays from today.
func (s *ReminderService) SendPaymentDueReminders(ctx context.Context) error {
	target := s.now().AddDate(0, 0, s.leadDays)
	methods, err := s.listMethodsForDay(ctx, target, s.methodRepo.ListByDueDay)
	if err != nil {
		return fmt.Errorf("failed to list methods by due day: %w", err)
	}
	return s.dispatch(ctx, reminder.KindPaymentDue, target, methods)
}

// SendWeeklyReports pushes the last seven days' spending summary to every
// active user reachable on WhatsApp. Opt-out follows the statement reminder
// preference.
func (s *ReminderService) SendWeeklyReports(ctx context.Context) error {
	profiles, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	now := s.now()
	from := now.AddDate(0, 0, -7)

	var targets []reminderTarget
	for _, p := range profiles {
		if !p.StatementRemindersEnabled || p.WhatsAppChatID() == "" {
			continue
		}
		targets = append(targets, reminderTarget{profile: p})
	}

	for start := 0; start < len(targets); start += reminderBatchSize {
		end := start + reminderBatchSize
		if end > len(targets) {
			end = len(targets)
		}

		var wg sync.WaitGroup
		for _, t := range targets[start:end] {
			wg.Add(1)
			go func(t reminderTarget) {
				defer wg.Done()
				s.sendWeeklyReport(ctx, t.profile, from, now)
			}(t)
		}
		wg.Wait()
	}
	return nil
}

func (s *ReminderService) sendWeeklyReport(ctx context.Context, p *user.Profile, from, to time.Time) {
	summary, err := s.reports.Summarize(ctx, p.ID, from, to)
	if err != nil {
		s.logger.WithError(err).WithField("userID", p.ID).Error("failed to build weekly summary")
		return
	}
	text := formatSummary(summary, billing.Period{Start: from, End: to}, p.Locale)

	result := s.sender.Send(ctx, p.WhatsAppChatID(), text)

	entry := &reminder.SentLog{
		UserID:   p.ID,
		Kind:     reminder.KindWeeklyReport,
		Success:  result.Success,
		Attempts: result.Attempts,
		SentAt:   s.now(),
	}
	if !result.Success {
		entry.ErrorCategory = sql.NullString{String: result.ErrorCategory, Valid: true}
	}
	if err := s.sentRepo.LogSent(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("userID", p.ID).Error("failed to log weekly report")
	}
}

// listMethodsForDay resolves the target calendar day. When the target is the
// last day of its month, methods configured with any larger day also fall on
// it, so those are fetched too.
func (s *ReminderService) listMethodsForDay(
	ctx context.Context,
	target time.Time,
	list func(ctx context.Context, day int) ([]*paymentmethod.PaymentMethod, error),
) ([]*paymentmethod.PaymentMethod, error) {
	day := target.Day()
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, target.Location()).Day()

	methods, err := list(ctx, day)
	if err != nil {
		return nil, err
	}
	if day != lastDay {
		return methods, nil
	}
	for d := day + 1; d <= 31; d++ {
		extra, err := list(ctx, d)
		if err != nil {
			return nil, err
		}
		methods = append(methods, extra...)
	}
	return methods, nil
}

type reminderTarget struct {
	profile *user.Profile
	method  *paymentmethod.PaymentMethod
}

func (s *ReminderService) dispatch(ctx context.Context, kind reminder.Kind, targetDate time.Time, methods []*paymentmethod.PaymentMethod) error {
	if len(methods) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(methods))
	seen := make(map[int64]bool, len(methods))
	for _, m := range methods {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	profiles, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load users for reminders: %w", err)
	}
	byID := make(map[int64]*user.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	var targets []reminderTarget
	for _, m := range methods {
		p, ok := byID[m.UserID]
		if !ok || !p.IsActive {
			continue
		}
		if kind == reminder.KindStatementClosing && !p.StatementRemindersEnabled {
			continue
		}
		if kind == reminder.KindPaymentDue && !p.DueRemindersEnabled {
			continue
		}
		if p.WhatsAppChatID() == "" {
			s.logger.WithField("userID", p.ID).Warn("skipping reminder, user has no whatsapp identifier")
			continue
		}
		targets = append(targets, reminderTarget{profile: p, method: m})
	}

	s.logger.WithFields(logrus.Fields{
		"kind":     string(kind),
		"eligible": len(targets),
	}).Info("sending reminders")

	for start := 0; start < len(targets); start += reminderBatchSize {
		end := start + reminderBatchSize
		if end > len(targets) {
			end = len(targets)
		}

		var wg sync.WaitGroup
		for _, t := range targets[start:end] {
			wg.Add(1)
			go func(t reminderTarget) {
				defer wg.Done()
				s.sendOne(ctx, kind, targetDate, t)
			}(t)
		}
		wg.Wait()
	}
	return nil
}

func (s *ReminderService) sendOne(ctx context.Context, kind reminder.Kind, targetDate time.Time, t reminderTarget) {
	text, err := s.composeReminder(ctx, kind, targetDate, t)
	if err != nil {
		s.logger.WithError(err).WithField("userID", t.profile.ID).Error("failed to compose reminder")
		return
	}

	result := s.sender.Send(ctx, t.profile.WhatsAppChatID(), text)

	entry := &reminder.SentLog{
		UserID:          t.profile.ID,
		Kind:            kind,
		PaymentMethodID: sql.NullInt64{Int64: t.method.ID, Valid: true},
		Success:         result.Success,
		Attempts:        result.Attempts,
		SentAt:          s.now(),
	}
	if !result.Success {
		entry.ErrorCategory = sql.NullString{String: result.ErrorCategory, Valid: true}
		s.logger.WithError(result.Err).WithFields(logrus.Fields{
			"userID":   t.profile.ID,
			"category": result.ErrorCategory,
			"attempts": result.Attempts,
		}).Error("reminder delivery failed")
	}
	if err := s.sentRepo.LogSent(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("userID", t.profile.ID).Error("failed to log sent reminder")
	}
}

func (s *ReminderService) composeReminder(ctx context.Context, kind reminder.Kind, targetDate time.Time, t reminderTarget) (string, error) {
	pt := isPT(t.profile.Locale)

	if kind == reminder.KindPaymentDue {
		if pt {
			return fmt.Sprintf("Oi%s! A fatura do %s vence em %d dias (%02d/%02d). Não esqueça do pagamento 💳",
				firstNameSuffix(t.profile), t.method.Name, s.leadDays, targetDate.Day(), int(targetDate.Month())), nil
		}
		return fmt.Sprintf("Hi%s! Your %s payment is due in %d days (%s). Don't forget it 💳",
			firstNameSuffix(t.profile), t.method.Name, s.leadDays, targetDate.Format("Jan 2")), nil
	}

	closingDay := s.defaultClosingDay
	if closingDay < 1 || closingDay > 31 {
		closingDay = billing.DefaultClosingDay
	}
	if t.method.StatementClosingDay.Valid {
		closingDay = int(t.method.StatementClosingDay.Int64)
	}
	period := billing.StatementPeriod(targetDate, closingDay)
	summary, err := s.reports.Summarize(ctx, t.profile.ID, period.Start, period.End)
	if err != nil {
		return "", err
	}

	if pt {
		return fmt.Sprintf("Oi%s! A fatura do %s fecha em %d dias (%02d/%02d).\nPeríodo: %s\nTotal até agora: R$ %s",
			firstNameSuffix(t.profile), t.method.Name, s.leadDays, targetDate.Day(), int(targetDate.Month()),
			period.Format(t.profile.Locale), summary.TotalSpent.StringFixed(2)), nil
	}
	return fmt.Sprintf("Hi%s! Your %s statement closes in %d days (%s).\nPeriod: %s\nSpent so far: %s",
		firstNameSuffix(t.profile), t.method.Name, s.leadDays, targetDate.Format("Jan 2"),
		period.Format(t.profile.Locale), summary.TotalSpent.StringFixed(2)), nil
}

func firstNameSuffix(p *user.Profile) string {
	if p.FirstName == "" {
		return ""
	}
	return " " + p.FirstName
}
