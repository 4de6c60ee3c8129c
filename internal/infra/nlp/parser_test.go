package nlp

import (
	"context"
	"errors"
	"testing"

	"finance_assistant_bot/internal/domain/intent"
)

func TestParse_Expense(t *testing.T) {
	p := NewParser()

	cases := []struct {
		text         string
		wantAction   intent.Action
		wantAmount   string
		wantCategory string
		wantMethod   string
	}{
		{"mercado 54,90", intent.ActionAddExpense, "54.90", "mercado", ""},
		{"Uber pra casa R$ 23,50", intent.ActionAddExpense, "23.50", "transporte", ""},
		{"ifood 45 credito", intent.ActionAddExpense, "45.00", "comida", "credito"},
		{"aluguel 1.200,00 pix", intent.ActionAddExpense, "1200.00", "moradia", "pix"},
		{"farmacia 32.75 debito", intent.ActionAddExpense, "32.75", "saúde", "debito"},
	}
	for _, c := range cases {
		got, err := p.Parse(context.Background(), &intent.Message{Text: c.text})
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.text, err)
			continue
		}
		if got.Action != c.wantAction {
			t.Errorf("%q: Action = %s, want %s", c.text, got.Action, c.wantAction)
		}
		if got.Entity(intent.EntityAmount) != c.wantAmount {
			t.Errorf("%q: amount = %q, want %q", c.text, got.Entity(intent.EntityAmount), c.wantAmount)
		}
		if got.Entity(intent.EntityCategory) != c.wantCategory {
			t.Errorf("%q: category = %q, want %q", c.text, got.Entity(intent.EntityCategory), c.wantCategory)
		}
		if got.Entity(intent.EntityPaymentMethod) != c.wantMethod {
			t.Errorf("%q: payment method = %q, want %q", c.text, got.Entity(intent.EntityPaymentMethod), c.wantMethod)
		}
	}
}

func TestParse_Income(t *testing.T) {
	p := NewParser()
	got, err := p.Parse(context.Background(), &intent.Message{Text: "recebi salário 3.500,00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != intent.ActionAddIncome {
		t.Errorf("Action = %s, want add_income", got.Action)
	}
	if got.Entity(intent.EntityAmount) != "3500.00" {
		t.Errorf("amount = %q, want 3500.00", got.Entity(intent.EntityAmount))
	}
}

func TestParse_Installments(t *testing.T) {
	p := NewParser()
	got, err := p.Parse(context.Background(), &intent.Message{Text: "notebook 3.000,00 em 10x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != intent.ActionCreateInstallment {
		t.Errorf("Action = %s, want create_installment", got.Action)
	}
	if got.Entity(intent.EntityAmount) != "3000.00" {
		t.Errorf("amount = %q, want 3000.00 (installment count must not be read as amount)", got.Entity(intent.EntityAmount))
	}
	if got.Entity(intent.EntityInstallments) != "10" {
		t.Errorf("installments = %q, want 10", got.Entity(intent.EntityInstallments))
	}
}

func TestParse_NoAmountDefers(t *testing.T) {
	p := NewParser()
	for _, text := range []string{"quanto gastei esse mês?", "oi", "/fatura", ""} {
		_, err := p.Parse(context.Background(), &intent.Message{Text: text})
		if !errors.Is(err, intent.ErrNoMatch) {
			t.Errorf("%q: err = %v, want ErrNoMatch", text, err)
		}
	}
}
