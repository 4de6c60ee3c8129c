// internal/app/reminder_service_test.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"finance_assistant_bot/internal/domain/paymentmethod"
	"finance_assistant_bot/internal/domain/reminder"
	"finance_assistant_bot/internal/domain/transaction"
	"finance_assistant_bot/internal/domain/user"
	"finance_assistant_bot/internal/infra/delivery"

	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeMethodRepo struct {
	paymentmethod.Repository
	byClosingDay map[int][]*paymentmethod.PaymentMethod
	byDueDay     map[int][]*paymentmethod.PaymentMethod
}

func (r *fakeMethodRepo) ListByClosingDay(_ context.Context, day int) ([]*paymentmethod.PaymentMethod, error) {
	return r.byClosingDay[day], nil
}

func (r *fakeMethodRepo) ListByDueDay(_ context.Context, day int) ([]*paymentmethod.PaymentMethod, error) {
	return r.byDueDay[day], nil
}

type fakeUserRepo struct {
	user.Repository
	profiles map[int64]*user.Profile
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []int64) ([]*user.Profile, error) {
	var out []*user.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSentRepo struct {
	mu      sync.Mutex
	entries []*reminder.SentLog
}

func (r *fakeSentRepo) LogSent(_ context.Context, entry *reminder.SentLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

type fakeTxRepo struct {
	transaction.Repository
	transactions []*transaction.Transaction
}

func (r *fakeTxRepo) ListByPeriod(_ context.Context, userID int64, from, to time.Time) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, t := range r.transactions {
		if t.UserID == userID && !t.OccurredAt.Before(from) && !t.OccurredAt.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

// recordingClient records every delivery, concurrency-safe.
type recordingClient struct {
	mu    sync.Mutex
	sends []string // chat ids in send order
}

func (c *recordingClient) SendText(_ context.Context, chatID, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sends = append(c.sends, chatID)
	return fmt.Sprintf("msg-%d", len(c.sends)), nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func phone(number string) sql.NullString {
	return sql.NullString{String: number, Valid: true}
}

func cardFor(userID int64, name string, closingDay, dueDay int) *paymentmethod.PaymentMethod {
	pm := &paymentmethod.PaymentMethod{
		ID:     userID*10 + 1,
		UserID: userID,
		Name:   name,
		Kind:   paymentmethod.KindCreditCard,
	}
	if closingDay > 0 {
		pm.StatementClosingDay = sql.NullInt64{Int64: int64(closingDay), Valid: true}
	}
	if dueDay > 0 {
		pm.PaymentDueDay = sql.NullInt64{Int64: int64(dueDay), Valid: true}
	}
	return pm
}

func newTestReminderService(
	methods *fakeMethodRepo,
	users *fakeUserRepo,
	sent *fakeSentRepo,
	client *recordingClient,
	now time.Time,
) *ReminderService {
	logger := discardLogger()
	reports := NewReportService(&fakeTxRepo{}, logger)
	sender := delivery.NewSender(client, func(int) time.Duration { return 0 }, logger)
	svc := NewReminderService(methods, users, sent, reports, sender, 3, 5, logger)
	svc.now = fixedClock(now)
	return svc
}

func TestStatementClosingRemindersSkipUsersWithoutWhatsApp(t *testing.T) {
	now := time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC) // target = March 10

	methods := &fakeMethodRepo{byClosingDay: map[int][]*paymentmethod.PaymentMethod{
		10: {cardFor(1, "nubank", 10, 0), cardFor(2, "itau", 10, 0)},
	}}
	users := &fakeUserRepo{profiles: map[int64]*user.Profile{
		1: {ID: 1, PhoneNumber: phone("5511999990001"), Locale: "pt-BR", StatementRemindersEnabled: true, DueRemindersEnabled: true, IsActive: true},
		2: {ID: 2, Locale: "pt-BR", StatementRemindersEnabled: true, DueRemindersEnabled: true, IsActive: true}, // no whatsapp identifier at all
	}}
	sent := &fakeSentRepo{}
	client := &recordingClient{}

	svc := newTestReminderService(methods, users, sent, client, now)
	if err := svc.SendStatementClosingReminders(context.Background()); err != nil {
		t.Fatalf("SendStatementClosingReminders: %v", err)
	}

	if len(client.sends) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(client.sends))
	}
	if want := "5511999990001@s.whatsapp.net"; client.sends[0] != want {
		t.Errorf("sent to %q, want %q", client.sends[0], want)
	}
	if len(sent.entries) != 1 || sent.entries[0].UserID != 1 {
		t.Fatalf("expected one sent-log row for user 1, got %+v", sent.entries)
	}
	if !sent.entries[0].Success || sent.entries[0].Attempts != 1 {
		t.Errorf("unexpected log entry: %+v", sent.entries[0])
	}
}

func TestStatementClosingRemindersHonorOptOut(t *testing.T) {
	now := time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)

	methods := &fakeMethodRepo{byClosingDay: map[int][]*paymentmethod.PaymentMethod{
		10: {cardFor(1, "nubank", 10, 0)},
	}}
	users := &fakeUserRepo{profiles: map[int64]*user.Profile{
		1: {ID: 1, PhoneNumber: phone("5511999990001"), Locale: "pt-BR", StatementRemindersEnabled: false, DueRemindersEnabled: true, IsActive: true},
	}}
	sent := &fakeSentRepo{}
	client := &recordingClient{}

	svc := newTestReminderService(methods, users, sent, client, now)
	if err := svc.SendStatementClosingReminders(context.Background()); err != nil {
		t.Fatalf("SendStatementClosingReminders: %v", err)
	}
	if len(client.sends) != 0 {
		t.Fatalf("opted-out user was messaged %d times", len(client.sends))
	}
}

func TestPaymentDueRemindersUseDueDayAndKind(t *testing.T) {
	now := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC) // target = March 15

	methods := &fakeMethodRepo{byDueDay: map[int][]*paymentmethod.PaymentMethod{
		15: {cardFor(1, "nubank", 10, 15)},
	}}
	users := &fakeUserRepo{profiles: map[int64]*user.Profile{
		1: {ID: 1, WhatsAppJID: sql.NullString{String: "5511999990001@s.whatsapp.net", Valid: true}, Locale: "en", StatementRemindersEnabled: true, DueRemindersEnabled: true, IsActive: true},
	}}
	sent := &fakeSentRepo{}
	client := &recordingClient{}

	svc := newTestReminderService(methods, users, sent, client, now)
	if err := svc.SendPaymentDueReminders(context.Background()); err != nil {
		t.Fatalf("SendPaymentDueReminders: %v", err)
	}

	if len(sent.entries) != 1 {
		t.Fatalf("expected one sent-log row, got %d", len(sent.entries))
	}
	if sent.entries[0].Kind != reminder.KindPaymentDue {
		t.Errorf("logged kind %q, want %q", sent.entries[0].Kind, reminder.KindPaymentDue)
	}
}

func TestListMethodsForDayClampsAtEndOfMonth(t *testing.T) {
	// Feb 28, 2025 is the month's last day: cards closing on 29, 30 and 31
	// also close today.
	now := time.Date(2025, time.February, 25, 9, 0, 0, 0, time.UTC) // target = Feb 28

	methods := &fakeMethodRepo{byClosingDay: map[int][]*paymentmethod.PaymentMethod{
		28: {cardFor(1, "nubank", 28, 0)},
		31: {cardFor(2, "itau", 31, 0)},
	}}
	users := &fakeUserRepo{profiles: map[int64]*user.Profile{
		1: {ID: 1, PhoneNumber: phone("5511999990001"), Locale: "pt-BR", StatementRemindersEnabled: true, IsActive: true},
		2: {ID: 2, PhoneNumber: phone("5511999990002"), Locale: "pt-BR", StatementRemindersEnabled: true, IsActive: true},
	}}
	sent := &fakeSentRepo{}
	client := &recordingClient{}

	svc := newTestReminderService(methods, users, sent, client, now)
	if err := svc.SendStatementClosingReminders(context.Background()); err != nil {
		t.Fatalf("SendStatementClosingReminders: %v", err)
	}
	if len(client.sends) != 2 {
		t.Fatalf("expected both cards to be reminded, got %d deliveries", len(client.sends))
	}
}

func TestWhatsAppIdentifierFallbackOrder(t *testing.T) {
	cases := []struct {
		name    string
		profile user.Profile
		want    string
	}{
		{
			name: "jid wins",
			profile: user.Profile{
				WhatsAppJID: sql.NullString{String: "111@s.whatsapp.net", Valid: true},
				WhatsAppLID: sql.NullString{String: "222@lid", Valid: true},
				PhoneNumber: phone("5511999990001"),
			},
			want: "111@s.whatsapp.net",
		},
		{
			name: "lid next",
			profile: user.Profile{
				WhatsAppLID: sql.NullString{String: "222@lid", Valid: true},
				PhoneNumber: phone("5511999990001"),
			},
			want: "222@lid",
		},
		{
			name:    "phone derived last",
			profile: user.Profile{PhoneNumber: phone("5511999990001")},
			want:    "5511999990001@s.whatsapp.net",
		},
		{
			name:    "nothing reachable",
			profile: user.Profile{},
			want:    "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.profile.WhatsAppChatID(); got != tc.want {
				t.Errorf("WhatsAppChatID() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReminderUsesConfiguredClosingDayWhenCardHasNone(t *testing.T) {
	// newTestReminderService configures default closing day 5: a card with
	// no closing day of its own gets the period ending April 5.
	now := time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)
	target := now.AddDate(0, 0, 3)

	svc := newTestReminderService(&fakeMethodRepo{}, &fakeUserRepo{}, &fakeSentRepo{}, &recordingClient{}, now)
	profile := &user.Profile{ID: 1, Locale: "pt-BR", PhoneNumber: phone("5511999990001")}
	card := cardFor(1, "itau", 0, 0)

	text, err := svc.composeReminder(context.Background(), reminder.KindStatementClosing, target, reminderTarget{profile: profile, method: card})
	if err != nil {
		t.Fatalf("composeReminder: %v", err)
	}
	if !strings.Contains(text, "05 de abril de 2025") {
		t.Errorf("reminder should use the configured default closing day, got:\n%s", text)
	}
}

func TestReminderMessageMentionsCardAndPeriod(t *testing.T) {
	now := time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)
	target := now.AddDate(0, 0, 3)

	svc := newTestReminderService(&fakeMethodRepo{}, &fakeUserRepo{}, &fakeSentRepo{}, &recordingClient{}, now)
	profile := &user.Profile{ID: 1, FirstName: "Ana", Locale: "pt-BR", PhoneNumber: phone("5511999990001")}
	card := cardFor(1, "nubank", 10, 0)

	text, err := svc.composeReminder(context.Background(), reminder.KindStatementClosing, target, reminderTarget{profile: profile, method: card})
	if err != nil {
		t.Fatalf("composeReminder: %v", err)
	}
	for _, want := range []string{"Ana", "nubank", "3 dias", "10/03"} {
		if !strings.Contains(text, want) {
			t.Errorf("reminder text missing %q:\n%s", want, text)
		}
	}
}
