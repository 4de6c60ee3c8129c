// internal/app/report_service.go
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"finance_assistant_bot/internal/domain/billing"
	"finance_assistant_bot/internal/domain/transaction"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// PeriodSummary aggregates a user's spending inside one period.
type PeriodSummary struct {
	TotalSpent          decimal.Decimal
	TotalIncome         decimal.Decimal
	RegularTransactions int
	InstallmentPayments int
	Categories          []CategoryTotal // Sorted descending by total
}

// ReportService builds spending summaries from the transaction store.
type ReportService struct {
	txRepo transaction.Repository
	logger *logrus.Entry
}

func NewReportService(txRepo transaction.Repository, logger *logrus.Entry) *ReportService {
	return &ReportService{txRepo: txRepo, logger: logger}
}

// Summarize aggregates all of the user's transactions inside [from, to].
// Income is totalled separately and excluded from the spending breakdown.
func (s *ReportService) Summarize(ctx context.Context, userID int64, from, to time.Time) (*PeriodSummary, error) {
	transactions, err := s.txRepo.ListByPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for summary: %w", err)
	}

	summary := &PeriodSummary{
		TotalSpent:  decimal.Zero,
		TotalIncome: decimal.Zero,
	}
	byCategory := make(map[string]*CategoryTotal)

	for _, t := range transactions {
		if t.Kind == transaction.KindIncome {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			continue
		}

		summary.TotalSpent = summary.TotalSpent.Add(t.Amount)
		if t.IsInstallment {
			summary.InstallmentPayments++
		} else {
			summary.RegularTransactions++
		}

		ct, ok := byCategory[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCategory[t.Category] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}

	summary.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		summary.Categories = append(summary.Categories, *ct)
	}
	// Descending by total; alphabetical tiebreak keeps output stable.
	sort.Slice(summary.Categories, func(i, j int) bool {
		if !summary.Categories[i].Total.Equal(summary.Categories[j].Total) {
			return summary.Categories[i].Total.GreaterThan(summary.Categories[j].Total)
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	return summary, nil
}

// MonthlyReportText renders the current calendar month's summary for chat.
func (s *ReportService) MonthlyReportText(ctx context.Context, userID int64, locale string, now time.Time) (string, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	summary, err := s.Summarize(ctx, userID, from, to)
	if err != nil {
		return "", err
	}
	return formatSummary(summary, billing.Period{Start: from, End: to}, locale), nil
}

func formatSummary(summary *PeriodSummary, period billing.Period, locale string) string {
	pt := isPT(locale)
	var b strings.Builder

	if pt {
		b.WriteString("📊 Resumo de " + period.Format(locale) + "\n\n")
		b.WriteString(fmt.Sprintf("Gastos: R$ %s\n", summary.TotalSpent.StringFixed(2)))
		if summary.TotalIncome.GreaterThan(decimal.Zero) {
			b.WriteString(fmt.Sprintf("Receitas: R$ %s\n", summary.TotalIncome.StringFixed(2)))
		}
		b.WriteString(fmt.Sprintf("Transações: %d (+%d parcelas)\n",
			summary.RegularTransactions, summary.InstallmentPayments))
	} else {
		b.WriteString("📊 Summary for " + period.Format(locale) + "\n\n")
		b.WriteString(fmt.Sprintf("Spent: %s\n", summary.TotalSpent.StringFixed(2)))
		if summary.TotalIncome.GreaterThan(decimal.Zero) {
			b.WriteString(fmt.Sprintf("Income: %s\n", summary.TotalIncome.StringFixed(2)))
		}
		b.WriteString(fmt.Sprintf("Transactions: %d (+%d installment payments)\n",
			summary.RegularTransactions, summary.InstallmentPayments))
	}

	if len(summary.Categories) > 0 {
		b.WriteString("\n")
		currency := ""
		if pt {
			currency = "R$ "
		}
		for _, ct := range summary.Categories {
			b.WriteString(fmt.Sprintf("• %s: %s%s (%d)\n", ct.Category, currency, ct.Total.StringFixed(2), ct.Count))
		}
	}
	return b.String()
}
