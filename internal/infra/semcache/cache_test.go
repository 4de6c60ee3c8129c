package semcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance_assistant_bot/internal/domain/intent"
)

func TestCache_HitAfterPut(t *testing.T) {
	c, err := New(time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("Mercado 54,90", &intent.Intent{
		Action:     intent.ActionAddExpense,
		Confidence: 0.9,
		Entities:   map[string]string{intent.EntityAmount: "54.90"},
	})
	c.Wait()

	// Lookup uses the normalized form, so casing/whitespace differences hit.
	got, err := c.Parse(context.Background(), &intent.Message{Text: "  mercado   54,90 "})
	if err != nil {
		t.Fatalf("Parse after Put: %v", err)
	}
	if got.Action != intent.ActionAddExpense {
		t.Errorf("Action = %s, want add_expense", got.Action)
	}
	if got.Entity(intent.EntityAmount) != "54.90" {
		t.Errorf("amount = %q, want 54.90", got.Entity(intent.EntityAmount))
	}

	// Mutating the returned entities must not poison the cached copy.
	got.Entities[intent.EntityAmount] = "999"
	again, err := c.Parse(context.Background(), &intent.Message{Text: "mercado 54,90"})
	if err != nil {
		t.Fatalf("second Parse: %v", err)
	}
	if again.Entity(intent.EntityAmount) != "54.90" {
		t.Errorf("cached amount mutated to %q", again.Entity(intent.EntityAmount))
	}
}

func TestCache_MissDefers(t *testing.T) {
	c, err := New(time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Parse(context.Background(), &intent.Message{Text: "nunca visto"})
	if !errors.Is(err, intent.ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}
