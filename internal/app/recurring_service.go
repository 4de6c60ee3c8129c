// internal/app/recurring_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"finance_assistant_bot/internal/domain/recurring"
	"finance_assistant_bot/internal/domain/transaction"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RecurringService posts due recurring transactions. One bad row never
// blocks the rest of the batch.
type RecurringService struct {
	recurringRepo recurring.Repository
	txRepo        transaction.Repository
	logger        *logrus.Entry
	now           func() time.Time
}

func NewRecurringService(recurringRepo recurring.Repository, txRepo transaction.Repository, logger *logrus.Entry) *RecurringService {
	return &RecurringService{
		recurringRepo: recurringRepo,
		txRepo:        txRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// PostDue creates a transaction for every recurring row whose NextRun has
// arrived, then advances NextRun one month.
func (s *RecurringService) PostDue(ctx context.Context) error {
	now := s.now()
	due, err := s.recurringRepo.ListDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list due recurring transactions: %w", err)
	}

	posted := 0
	for _, r := range due {
		t := &transaction.Transaction{
			UUID:        uuid.NewString(),
			UserID:      r.UserID,
			Kind:        r.Kind,
			Description: r.Description,
			Amount:      r.Amount,
			Category:    r.Category,
			OccurredAt:  r.NextRun,
		}
		if err := s.txRepo.Create(ctx, t); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"recurringID": r.ID,
				"userID":      r.UserID,
			}).Error("failed to post recurring transaction")
			continue
		}
		if err := s.recurringRepo.AdvanceNextRun(ctx, r.ID, r.NextOccurrence(now)); err != nil {
			s.logger.WithError(err).WithField("recurringID", r.ID).Error("failed to advance recurring next run")
			continue
		}
		posted++
	}

	if posted > 0 {
		s.logger.WithField("posted", posted).Info("recurring transactions posted")
	}
	return nil
}
