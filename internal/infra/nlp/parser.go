// Package nlp is the local natural-language parser stage: regex amount
// extraction plus keyword heuristics. It resolves the common "mercado 54,90"
// style of message without an LLM round trip.
package nlp

import (
	"context"
	"regexp"
	"strings"

	"finance_assistant_bot/internal/domain/intent"

	"github.com/shopspring/decimal"
)

// Matches: 54,90, R$ 54.90, $10, 120, 1.234,56. Currency marker optional.
var amountRE = regexp.MustCompile(`(?i)(?:(R\$|\$|€)\s*)?(\d{1,3}(?:\.\d{3})*,\d{1,2}|\d+(?:[.,]\d{1,2})?)(?:\s*(reais|real))?`)

// Matches "3x", "em 10x", "10 vezes".
var installmentsRE = regexp.MustCompile(`(?i)(?:em\s+)?(\d{1,2})\s*(?:x\b|vezes)`)

var incomeKeywords = []string{"recebi", "salário", "salario", "rendimento", "received", "salary", "income", "ganhei"}

var categoryKeywords = map[string][]string{
	"mercado":    {"mercado", "supermercado", "feira", "grocery", "groceries"},
	"transporte": {"uber", "99", "ônibus", "onibus", "metrô", "metro", "gasolina", "taxi", "bus"},
	"comida":     {"ifood", "restaurante", "lanche", "almoço", "almoco", "jantar", "pizza", "lunch", "dinner"},
	"moradia":    {"aluguel", "condomínio", "condominio", "luz", "água", "agua", "internet", "rent"},
	"saúde":      {"farmácia", "farmacia", "médico", "medico", "remédio", "remedio", "pharmacy", "doctor"},
	"lazer":      {"cinema", "show", "netflix", "spotify", "jogo", "game", "movie"},
}

var paymentKeywords = map[string][]string{
	"credito": {"crédito", "credito", "credit"},
	"debito":  {"débito", "debito", "debit"},
	"pix":     {"pix"},
	"cash":    {"dinheiro", "cash"},
}

// Parser implements the intent.Stage interface.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (p *Parser) Name() string { return "local_nlp" }

// Parse only claims a match when it finds an amount: messages without one
// are better answered by the cache or LLM stages.
func (p *Parser) Parse(_ context.Context, msg *intent.Message) (*intent.Intent, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return nil, intent.ErrNoMatch
	}

	lower := strings.ToLower(text)

	// Pull the installment marker out first so "mercado 100 em 10x" doesn't
	// read the "10" as the amount.
	installments := ""
	working := text
	if m := installmentsRE.FindStringSubmatch(lower); m != nil {
		installments = m[1]
		working = strings.TrimSpace(installmentsRE.ReplaceAllString(working, ""))
	}

	amount, rest, ok := extractAmount(working)
	if !ok {
		return nil, intent.ErrNoMatch
	}

	entities := map[string]string{
		intent.EntityAmount:      amount.StringFixed(2),
		intent.EntityDescription: rest,
	}

	if category := matchKeyword(lower, categoryKeywords); category != "" {
		entities[intent.EntityCategory] = category
	}
	if method := matchKeyword(lower, paymentKeywords); method != "" {
		entities[intent.EntityPaymentMethod] = method
	}

	action := intent.ActionAddExpense
	for _, kw := range incomeKeywords {
		if strings.Contains(lower, kw) {
			action = intent.ActionAddIncome
			break
		}
	}

	if installments != "" && action == intent.ActionAddExpense {
		entities[intent.EntityInstallments] = installments
		action = intent.ActionCreateInstallment
	}

	return &intent.Intent{Action: action, Confidence: 0.8, Entities: entities}, nil
}

// extractAmount pulls the last amount-looking token out of the text and
// returns the remaining words as the description.
func extractAmount(text string) (decimal.Decimal, string, bool) {
	matches := amountRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return decimal.Zero, "", false
	}

	// The last match is most likely the amount ("uber 99 12,50" → 12,50).
	m := matches[len(matches)-1]
	raw := text[m[4]:m[5]]

	normalized := normalizeNumber(raw)
	amount, err := decimal.NewFromString(normalized)
	if err != nil || amount.IsZero() {
		return decimal.Zero, "", false
	}

	rest := strings.TrimSpace(text[:m[0]] + " " + text[m[1]:])
	return amount, rest, true
}

// normalizeNumber converts Brazilian formatting (1.234,56) to the canonical
// decimal form (1234.56).
func normalizeNumber(raw string) string {
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return raw
}

func matchKeyword(lower string, table map[string][]string) string {
	for name, keywords := range table {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return name
			}
		}
	}
	return ""
}
