// internal/app/intent_service_test.go
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"finance_assistant_bot/internal/domain/budget"
	"finance_assistant_bot/internal/domain/category"
	"finance_assistant_bot/internal/domain/installment"
	"finance_assistant_bot/internal/domain/intent"
	"finance_assistant_bot/internal/domain/paymentmethod"
	"finance_assistant_bot/internal/domain/recurring"
	"finance_assistant_bot/internal/domain/user"
	"finance_assistant_bot/internal/infra/pending"
)

type fixedStage struct {
	name   string
	result *intent.Intent
}

func (s *fixedStage) Name() string { return s.name }

func (s *fixedStage) Parse(_ context.Context, _ *intent.Message) (*intent.Intent, error) {
	if s.result == nil {
		return nil, intent.ErrNoMatch
	}
	out := *s.result
	return &out, nil
}

type fakePatternRepo struct {
	intent.PatternRepository
	mu    sync.Mutex
	saved []*intent.Pattern
}

func (r *fakePatternRepo) Save(_ context.Context, p *intent.Pattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, p)
	return nil
}

func (r *fakePatternRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type prefMethodRepo struct {
	paymentmethod.Repository
	byName    map[string]*paymentmethod.PaymentMethod
	preferred *paymentmethod.PaymentMethod
	mu        sync.Mutex
	recorded  []string // categories passed to RecordPreference
}

func (r *prefMethodRepo) GetByName(_ context.Context, _ int64, name string) (*paymentmethod.PaymentMethod, error) {
	if pm, ok := r.byName[name]; ok {
		return pm, nil
	}
	return nil, errors.New("payment method not found")
}

func (r *prefMethodRepo) ListByUser(_ context.Context, _ int64) ([]*paymentmethod.PaymentMethod, error) {
	var out []*paymentmethod.PaymentMethod
	for _, pm := range r.byName {
		out = append(out, pm)
	}
	return out, nil
}

func (r *prefMethodRepo) GetPreferredForCategory(_ context.Context, _ int64, category string) (*paymentmethod.PaymentMethod, error) {
	if r.preferred == nil {
		return nil, errors.New("no preference learned")
	}
	return r.preferred, nil
}

func (r *prefMethodRepo) RecordPreference(_ context.Context, _ int64, category string, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, category)
	return nil
}

type failingBudgetRepo struct {
	budget.Repository
}

func (r *failingBudgetRepo) GetByCategory(_ context.Context, _ int64, _ string) (*budget.Budget, error) {
	return nil, errors.New("no budget")
}

type unusedCategoryRepo struct{ category.Repository }
type unusedRecurringRepo struct{ recurring.Repository }
type unusedInstallmentRepo struct{ installment.Repository }
type unusedUserRepo struct{ user.Repository }

func newTestIntentService(stage intent.Stage, txRepo *creatingTxRepo, methodRepo *prefMethodRepo, patternRepo *fakePatternRepo) *IntentService {
	logger := discardLogger()
	store := pending.NewStore(time.Minute)
	t := txRepo
	if t == nil {
		t = &creatingTxRepo{}
	}
	m := methodRepo
	if m == nil {
		m = &prefMethodRepo{}
	}
	p := patternRepo
	if p == nil {
		p = &fakePatternRepo{}
	}
	svc := NewIntentService(
		intent.NewCascade(logger, stage),
		p,
		&unusedUserRepo{},
		t,
		&unusedCategoryRepo{},
		&failingBudgetRepo{},
		m,
		&unusedRecurringRepo{},
		&unusedInstallmentRepo{},
		NewReportService(&fakeTxRepo{}, logger),
		store,
		10,
		logger,
	)
	svc.now = fixedClock(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))
	return svc
}

func ptProfile() *user.Profile {
	return &user.Profile{ID: 1, Locale: "pt-BR", IsActive: true}
}

func TestHandleMessageUnresolvedFallsBackToHelp(t *testing.T) {
	svc := newTestIntentService(&fixedStage{name: "none"}, nil, nil, nil)

	reply := svc.HandleMessage(context.Background(), ptProfile(), "blablabla")
	if !strings.Contains(reply, "/ajuda") {
		t.Errorf("unresolved message should point at help, got:\n%s", reply)
	}
}

func TestHandleMessageExecutesResolvedIntent(t *testing.T) {
	stage := &fixedStage{name: "local_nlp", result: &intent.Intent{
		Action:     intent.ActionAddExpense,
		Confidence: 0.8,
		Entities: map[string]string{
			intent.EntityAmount:      "54.90",
			intent.EntityDescription: "mercado",
			intent.EntityCategory:    "mercado",
		},
	}}
	txRepo := &creatingTxRepo{}
	svc := newTestIntentService(stage, txRepo, nil, nil)

	reply := svc.HandleMessage(context.Background(), ptProfile(), "mercado 54,90")
	if !strings.Contains(reply, "54.90") {
		t.Errorf("confirmation should echo the amount, got:\n%s", reply)
	}
	if len(txRepo.created) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txRepo.created))
	}
	if txRepo.created[0].Category != "mercado" {
		t.Errorf("category = %q, want mercado", txRepo.created[0].Category)
	}
}

func TestHandleMessageLearnsPatternOnlyFromLLM(t *testing.T) {
	result := &intent.Intent{
		Action:   intent.ActionAddExpense,
		Entities: map[string]string{intent.EntityAmount: "10", intent.EntityDescription: "cafe"},
	}

	for _, tc := range []struct {
		stageName string
		wantSaved bool
	}{
		{"llm", true},
		{"local_nlp", false},
		{"command", false},
	} {
		t.Run(tc.stageName, func(t *testing.T) {
			patterns := &fakePatternRepo{}
			svc := newTestIntentService(&fixedStage{name: tc.stageName, result: result}, nil, nil, patterns)

			svc.HandleMessage(context.Background(), ptProfile(), "paguei dez no cafe")

			// learnPattern runs on a goroutine.
			deadline := time.Now().Add(time.Second)
			for patterns.count() == 0 && tc.wantSaved && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			if saved := patterns.count() > 0; saved != tc.wantSaved {
				t.Errorf("pattern saved = %v, want %v", saved, tc.wantSaved)
			}
		})
	}
}

func TestExpenseUsesLearnedPaymentMethodPreference(t *testing.T) {
	preferred := &paymentmethod.PaymentMethod{ID: 42, UserID: 1, Name: "nubank", Kind: paymentmethod.KindCreditCard}
	methodRepo := &prefMethodRepo{preferred: preferred}
	txRepo := &creatingTxRepo{}
	stage := &fixedStage{name: "local_nlp", result: &intent.Intent{
		Action: intent.ActionAddExpense,
		Entities: map[string]string{
			intent.EntityAmount:      "30",
			intent.EntityDescription: "uber",
			intent.EntityCategory:    "transporte",
		},
	}}
	svc := newTestIntentService(stage, txRepo, methodRepo, nil)

	reply := svc.HandleMessage(context.Background(), ptProfile(), "uber 30")
	if !strings.Contains(reply, "nubank") {
		t.Errorf("reply should name the injected payment method, got:\n%s", reply)
	}
	if len(txRepo.created) != 1 || !txRepo.created[0].PaymentMethodID.Valid || txRepo.created[0].PaymentMethodID.Int64 != 42 {
		t.Fatalf("transaction missing injected payment method: %+v", txRepo.created)
	}
}

func TestStatementSummaryFallsBackToConfiguredClosingDay(t *testing.T) {
	// newTestIntentService configures closing day 10 and a clock fixed on
	// March 10, so the fallback period must end on March 10.
	stage := &fixedStage{name: "command", result: &intent.Intent{
		Action:   intent.ActionStatementSummary,
		Entities: map[string]string{},
	}}
	svc := newTestIntentService(stage, nil, &prefMethodRepo{}, nil)

	reply := svc.HandleMessage(context.Background(), ptProfile(), "/fatura")
	if !strings.Contains(reply, "10 de março de 2025") {
		t.Errorf("summary should use the configured default closing day, got:\n%s", reply)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	existing := expense(1, "25", "comida", time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC))
	existing.UUID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	existing.Description = "pizza"
	txRepo := &creatingTxRepo{}
	txRepo.byUUID = existing

	stage := &fixedStage{name: "command", result: &intent.Intent{
		Action:   intent.ActionDeleteTransaction,
		Entities: map[string]string{intent.EntityTransactionID: existing.UUID},
	}}
	svc := newTestIntentService(stage, txRepo, nil, nil)
	profile := ptProfile()

	reply := svc.HandleMessage(context.Background(), profile, "/apagar "+existing.UUID)
	if !strings.Contains(reply, "pizza") {
		t.Fatalf("confirmation prompt should describe the transaction, got:\n%s", reply)
	}
	if txRepo.deleted != "" {
		t.Fatal("transaction deleted before confirmation")
	}

	reply = svc.HandleMessage(context.Background(), profile, "sim")
	if txRepo.deleted != existing.UUID {
		t.Errorf("confirmed delete did not reach the repository, reply:\n%s", reply)
	}
}

func TestDeleteConfirmationCanBeCancelled(t *testing.T) {
	existing := expense(1, "25", "comida", time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC))
	existing.UUID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	txRepo := &creatingTxRepo{byUUID: existing}

	stage := &fixedStage{name: "command", result: &intent.Intent{
		Action:   intent.ActionDeleteTransaction,
		Entities: map[string]string{intent.EntityTransactionID: existing.UUID},
	}}
	svc := newTestIntentService(stage, txRepo, nil, nil)
	profile := ptProfile()

	svc.HandleMessage(context.Background(), profile, "/apagar "+existing.UUID)
	svc.HandleMessage(context.Background(), profile, "não")

	if txRepo.deleted != "" {
		t.Error("cancelled delete still reached the repository")
	}
	// A later "sim" with nothing pending must not delete either.
	svc.HandleMessage(context.Background(), profile, "sim")
	if txRepo.deleted != "" {
		t.Error("stale confirmation deleted a transaction")
	}
}
