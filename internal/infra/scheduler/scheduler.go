package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderSender is the slice of the reminder service the scheduler needs.
type ReminderSender interface {
	SendStatementClosingReminders(ctx context.Context) error
	SendPaymentDueReminders(ctx context.Context) error
}

// RecurringPoster posts due recurring transactions.
type RecurringPoster interface {
	PostDue(ctx context.Context) error
}

// WeeklyReporter pushes the weekly spending summary to every active user.
type WeeklyReporter interface {
	SendWeeklyReports(ctx context.Context) error
}

type Scheduler struct {
	cronEngine *cron.Cron
	reminders  ReminderSender
	recurring  RecurringPoster
	weekly     WeeklyReporter
	logger     *logrus.Entry

	cronSpecStatementCheck string
	cronSpecDueCheck       string
	cronSpecRecurring      string
	cronSpecWeeklyReport   string
}

func NewScheduler(
	reminders ReminderSender,
	recurring RecurringPoster,
	weekly WeeklyReporter,
	logger *logrus.Entry,
	cronSpecStatementCheck string, // e.g. "0 9 * * *" (09:00 daily)
	cronSpecDueCheck string, // e.g. "30 9 * * *"
	cronSpecRecurring string, // e.g. "0 6 * * *"
	cronSpecWeeklyReport string, // e.g. "0 10 * * 1" (Monday mornings)
) *Scheduler {
	return &Scheduler{
		cronEngine:             cron.New(cron.WithLocation(time.Local)), // server local time drives all specs
		reminders:              reminders,
		recurring:              recurring,
		weekly:                 weekly,
		logger:                 logger,
		cronSpecStatementCheck: cronSpecStatementCheck,
		cronSpecDueCheck:       cronSpecDueCheck,
		cronSpecRecurring:      cronSpecRecurring,
		cronSpecWeeklyReport:   cronSpecWeeklyReport,
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	jobs := []struct {
		name    string
		spec    string
		timeout time.Duration
		run     func(ctx context.Context) error
	}{
		{"statement_closing_reminders", s.cronSpecStatementCheck, 5 * time.Minute, s.reminders.SendStatementClosingReminders},
		{"payment_due_reminders", s.cronSpecDueCheck, 5 * time.Minute, s.reminders.SendPaymentDueReminders},
		{"recurring_transactions", s.cronSpecRecurring, 2 * time.Minute, s.recurring.PostDue},
		{"weekly_reports", s.cronSpecWeeklyReport, 10 * time.Minute, s.weekly.SendWeeklyReports},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cronEngine.AddFunc(job.spec, func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.WithField("job", job.name).Errorf("cron job panicked: %v", r)
				}
			}()

			s.logger.WithField("job", job.name).Info("cron job triggered")
			ctx, cancel := context.WithTimeout(context.Background(), job.timeout)
			defer cancel()

			if err := job.run(ctx); err != nil {
				s.logger.WithError(err).WithField("job", job.name).Error("cron job failed")
			}
		})
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"job":  job.name,
				"spec": job.spec,
			}).Fatal("could not register cron job")
		}
	}

	s.cronEngine.Start()
	s.logger.Info("scheduler started with jobs")
}

func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	ctx := s.cronEngine.Stop() // waits for running jobs
	<-ctx.Done()
	s.logger.Info("scheduler gracefully stopped")
}
