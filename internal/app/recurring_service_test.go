// internal/app/recurring_service_test.go
package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance_assistant_bot/internal/domain/recurring"
	"finance_assistant_bot/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

type fakeRecurringRepo struct {
	recurring.Repository
	due      []*recurring.RecurringTransaction
	advanced map[int64]time.Time
}

func (r *fakeRecurringRepo) ListDue(_ context.Context, _ time.Time) ([]*recurring.RecurringTransaction, error) {
	return r.due, nil
}

func (r *fakeRecurringRepo) AdvanceNextRun(_ context.Context, id int64, next time.Time) error {
	if r.advanced == nil {
		r.advanced = make(map[int64]time.Time)
	}
	r.advanced[id] = next
	return nil
}

type creatingTxRepo struct {
	transaction.Repository
	created []*transaction.Transaction
	failFor int64 // userID whose creates fail
	byUUID  *transaction.Transaction
	deleted string
}

func (r *creatingTxRepo) Create(_ context.Context, t *transaction.Transaction) error {
	if r.failFor != 0 && t.UserID == r.failFor {
		return errors.New("insert failed")
	}
	r.created = append(r.created, t)
	return nil
}

func (r *creatingTxRepo) GetByUUID(_ context.Context, _ int64, uuid string) (*transaction.Transaction, error) {
	if r.byUUID != nil && r.byUUID.UUID == uuid {
		return r.byUUID, nil
	}
	return nil, errors.New("transaction not found")
}

func (r *creatingTxRepo) DeleteByUUID(_ context.Context, _ int64, uuid string) error {
	r.deleted = uuid
	return nil
}

func TestPostDueCreatesTransactionsAndAdvances(t *testing.T) {
	now := time.Date(2025, time.March, 5, 8, 0, 0, 0, time.UTC)
	rec := &recurring.RecurringTransaction{
		ID:          7,
		UserID:      1,
		Kind:        transaction.KindExpense,
		Description: "aluguel",
		Amount:      decimal.RequireFromString("1500"),
		Category:    "moradia",
		DayOfMonth:  5,
		NextRun:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}
	recurringRepo := &fakeRecurringRepo{due: []*recurring.RecurringTransaction{rec}}
	txRepo := &creatingTxRepo{}

	svc := NewRecurringService(recurringRepo, txRepo, discardLogger())
	svc.now = fixedClock(now)

	if err := svc.PostDue(context.Background()); err != nil {
		t.Fatalf("PostDue: %v", err)
	}

	if len(txRepo.created) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txRepo.created))
	}
	created := txRepo.created[0]
	if created.Description != "aluguel" || !created.Amount.Equal(rec.Amount) {
		t.Errorf("unexpected transaction: %+v", created)
	}
	if created.UUID == "" {
		t.Error("posted transaction has no uuid")
	}

	next, ok := recurringRepo.advanced[7]
	if !ok {
		t.Fatal("NextRun was not advanced")
	}
	if want := time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("advanced to %v, want %v", next, want)
	}
}

func TestPostDueContinuesPastFailures(t *testing.T) {
	now := time.Date(2025, time.March, 5, 8, 0, 0, 0, time.UTC)
	mk := func(id, userID int64) *recurring.RecurringTransaction {
		return &recurring.RecurringTransaction{
			ID: id, UserID: userID,
			Kind:        transaction.KindExpense,
			Description: "assinatura",
			Amount:      decimal.RequireFromString("29.90"),
			Category:    "outros",
			DayOfMonth:  5,
			NextRun:     now.AddDate(0, 0, -1),
			Active:      true,
		}
	}
	recurringRepo := &fakeRecurringRepo{due: []*recurring.RecurringTransaction{mk(1, 10), mk(2, 20)}}
	txRepo := &creatingTxRepo{failFor: 10}

	svc := NewRecurringService(recurringRepo, txRepo, discardLogger())
	svc.now = fixedClock(now)

	if err := svc.PostDue(context.Background()); err != nil {
		t.Fatalf("PostDue: %v", err)
	}
	if len(txRepo.created) != 1 || txRepo.created[0].UserID != 20 {
		t.Fatalf("expected only user 20's row to post, got %+v", txRepo.created)
	}
	if _, ok := recurringRepo.advanced[1]; ok {
		t.Error("failed row must not advance NextRun")
	}
	if _, ok := recurringRepo.advanced[2]; !ok {
		t.Error("successful row must advance NextRun")
	}
}

func TestNextOccurrenceClampsShortMonths(t *testing.T) {
	rec := &recurring.RecurringTransaction{DayOfMonth: 31}
	from := time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC)

	next := rec.NextOccurrence(from)
	if want := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("NextOccurrence = %v, want %v", next, want)
	}
}
