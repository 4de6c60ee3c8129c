// internal/app/intent_handlers.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"finance_assistant_bot/internal/domain/billing"
	"finance_assistant_bot/internal/domain/budget"
	"finance_assistant_bot/internal/domain/category"
	"finance_assistant_bot/internal/domain/installment"
	"finance_assistant_bot/internal/domain/intent"
	"finance_assistant_bot/internal/domain/paymentmethod"
	"finance_assistant_bot/internal/domain/recurring"
	"finance_assistant_bot/internal/domain/transaction"
	"finance_assistant_bot/internal/domain/user"
	"finance_assistant_bot/internal/infra/pending"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *IntentService) handleAddTransaction(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	amount, err := decimal.NewFromString(in.Entity(intent.EntityAmount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return msgMissingAmount(profile.Locale), nil
	}

	kind := transaction.KindExpense
	if in.Action == intent.ActionAddIncome {
		kind = transaction.KindIncome
	}

	description := strings.TrimSpace(in.Entity(intent.EntityDescription))
	if description == "" {
		description = string(kind)
	}
	categoryName := normalizeCategoryName(in.Entity(intent.EntityCategory))

	t := &transaction.Transaction{
		UUID:        uuid.NewString(),
		UserID:      profile.ID,
		Kind:        kind,
		Description: description,
		Amount:      amount,
		Category:    categoryName,
		OccurredAt:  s.now(),
	}

	pm := s.resolvePaymentMethod(ctx, profile, in)
	if pm != nil {
		t.PaymentMethodID = sql.NullInt64{Int64: pm.ID, Valid: true}
	}

	if err := s.txRepo.Create(ctx, t); err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	if pm != nil && kind == transaction.KindExpense {
		s.recordMethodPreference(profile.ID, categoryName, pm.ID)
	}

	if isPT(profile.Locale) {
		if kind == transaction.KindIncome {
			return fmt.Sprintf("Receita registrada ✅\n%s — R$ %s", description, amount.StringFixed(2)), nil
		}
		reply := fmt.Sprintf("Gasto registrado ✅\n%s — R$ %s (%s)", description, amount.StringFixed(2), categoryName)
		if pm != nil {
			reply += "\nPagamento: " + pm.Name
		}
		if warning := s.budgetWarning(ctx, profile, categoryName); warning != "" {
			reply += "\n" + warning
		}
		return reply, nil
	}

	if kind == transaction.KindIncome {
		return fmt.Sprintf("Income logged ✅\n%s — %s", description, amount.StringFixed(2)), nil
	}
	reply := fmt.Sprintf("Expense logged ✅\n%s — %s (%s)", description, amount.StringFixed(2), categoryName)
	if pm != nil {
		reply += "\nPaid with: " + pm.Name
	}
	if warning := s.budgetWarning(ctx, profile, categoryName); warning != "" {
		reply += "\n" + warning
	}
	return reply, nil
}

// budgetWarning is advisory: any failure produces no warning, never an error.
func (s *IntentService) budgetWarning(ctx context.Context, profile *user.Profile, categoryName string) string {
	b, err := s.budgetRepo.GetByCategory(ctx, profile.ID, categoryName)
	if err != nil {
		return ""
	}
	spent, err := s.categorySpentThisMonth(ctx, profile.ID, categoryName)
	if err != nil {
		return ""
	}
	if spent.LessThan(b.MonthlyLimit) {
		return ""
	}
	if isPT(profile.Locale) {
		return fmt.Sprintf("⚠️ Orçamento de %s estourado: R$ %s de R$ %s", categoryName, spent.StringFixed(2), b.MonthlyLimit.StringFixed(2))
	}
	return fmt.Sprintf("⚠️ %s budget exceeded: %s of %s", categoryName, spent.StringFixed(2), b.MonthlyLimit.StringFixed(2))
}

func (s *IntentService) categorySpentThisMonth(ctx context.Context, userID int64, categoryName string) (decimal.Decimal, error) {
	now := s.now()
	from := now.AddDate(0, 0, -now.Day()+1)
	summary, err := s.reports.Summarize(ctx, userID, from, now)
	if err != nil {
		return decimal.Zero, err
	}
	for _, ct := range summary.Categories {
		if ct.Category == categoryName {
			return ct.Total, nil
		}
	}
	return decimal.Zero, nil
}

func (s *IntentService) handleListExpenses(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	transactions, err := s.txRepo.ListRecent(ctx, profile.ID, 10)
	if err != nil {
		return "", fmt.Errorf("failed to list recent transactions: %w", err)
	}
	if len(transactions) == 0 {
		if isPT(profile.Locale) {
			return "Nenhum lançamento ainda. Envie algo como \"mercado 54,90\" para começar.", nil
		}
		return "No transactions yet. Send something like \"groceries 54.90\" to get started.", nil
	}

	var b strings.Builder
	if isPT(profile.Locale) {
		b.WriteString("Últimos lançamentos:\n\n")
	} else {
		b.WriteString("Recent transactions:\n\n")
	}
	for _, t := range transactions {
		sign := "-"
		if t.Kind == transaction.KindIncome {
			sign = "+"
		}
		b.WriteString(fmt.Sprintf("%s R$ %s — %s (%s) [%s]\n",
			sign, t.Amount.StringFixed(2), t.Description, t.Category, shortUUID(t.UUID)))
	}
	if isPT(profile.Locale) {
		b.WriteString("\nPara apagar: /apagar <id>")
	} else {
		b.WriteString("\nTo delete: /delete <id>")
	}
	return b.String(), nil
}

// shortUUID keeps chat output readable; deletion accepts the prefix.
func shortUUID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (s *IntentService) handleDeleteTransaction(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	ref := in.Entity(intent.EntityTransactionID)
	if ref == "" {
		return msgNothingFound(profile.Locale), nil
	}

	target, err := s.findTransactionByRef(ctx, profile.ID, ref)
	if err != nil {
		return msgNothingFound(profile.Locale), nil
	}

	s.pendingStore.Put(profile.ID, pending.KindDeleteConfirmation, map[string]string{"uuid": target.UUID})
	return msgConfirmDelete(profile.Locale, target.Description, target.Amount.StringFixed(2)), nil
}

func (s *IntentService) findTransactionByRef(ctx context.Context, userID int64, ref string) (*transaction.Transaction, error) {
	if t, err := s.txRepo.GetByUUID(ctx, userID, ref); err == nil {
		return t, nil
	}
	// Allow the short prefix shown by /gastos.
	recent, err := s.txRepo.ListRecent(ctx, userID, 50)
	if err != nil {
		return nil, err
	}
	for _, t := range recent {
		if strings.HasPrefix(t.UUID, ref) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no transaction matches ref %q", ref)
}

func (s *IntentService) handleSetBudget(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	amount, err := decimal.NewFromString(in.Entity(intent.EntityAmount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return msgMissingAmount(profile.Locale), nil
	}
	categoryName := normalizeCategoryName(in.Entity(intent.EntityCategory))

	b := &budget.Budget{UserID: profile.ID, Category: categoryName, MonthlyLimit: amount}
	if err := s.budgetRepo.Upsert(ctx, b); err != nil {
		return "", fmt.Errorf("failed to upsert budget: %w", err)
	}

	if isPT(profile.Locale) {
		return fmt.Sprintf("Orçamento de %s definido: R$ %s por mês ✅", categoryName, amount.StringFixed(2)), nil
	}
	return fmt.Sprintf("Budget for %s set: %s per month ✅", categoryName, amount.StringFixed(2)), nil
}

func (s *IntentService) handleGetBudget(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	categoryName := normalizeCategoryName(in.Entity(intent.EntityCategory))
	b, err := s.budgetRepo.GetByCategory(ctx, profile.ID, categoryName)
	if err != nil {
		if isPT(profile.Locale) {
			return fmt.Sprintf("Nenhum orçamento definido para %s.", categoryName), nil
		}
		return fmt.Sprintf("No budget set for %s.", categoryName), nil
	}

	spent, err := s.categorySpentThisMonth(ctx, profile.ID, categoryName)
	if err != nil {
		return "", err
	}
	return formatBudgetLine(profile.Locale, b, spent), nil
}

func formatBudgetLine(locale string, b *budget.Budget, spent decimal.Decimal) string {
	remaining := b.MonthlyLimit.Sub(spent)
	if isPT(locale) {
		return fmt.Sprintf("%s: R$ %s de R$ %s (restam R$ %s)",
			b.Category, spent.StringFixed(2), b.MonthlyLimit.StringFixed(2), remaining.StringFixed(2))
	}
	return fmt.Sprintf("%s: %s of %s (%s left)",
		b.Category, spent.StringFixed(2), b.MonthlyLimit.StringFixed(2), remaining.StringFixed(2))
}

func (s *IntentService) handleBudgetStatus(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list budgets: %w", err)
	}
	if len(budgets) == 0 {
		if isPT(profile.Locale) {
			return "Nenhum orçamento definido. Ex.: \"definir orçamento mercado 800\".", nil
		}
		return "No budgets set. E.g.: \"set budget groceries 800\".", nil
	}

	var b strings.Builder
	if isPT(profile.Locale) {
		b.WriteString("Orçamentos do mês:\n\n")
	} else {
		b.WriteString("Budgets this month:\n\n")
	}
	for _, bd := range budgets {
		spent, err := s.categorySpentThisMonth(ctx, profile.ID, bd.Category)
		if err != nil {
			return "", err
		}
		b.WriteString("• " + formatBudgetLine(profile.Locale, bd, spent) + "\n")
	}
	return b.String(), nil
}

func (s *IntentService) handleAddCategory(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	name := normalizeCategoryName(in.Entity(intent.EntityName))
	c := &category.Category{UserID: profile.ID, Name: name}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return "", fmt.Errorf("failed to create category: %w", err)
	}
	if isPT(profile.Locale) {
		return "Categoria \"" + name + "\" criada ✅", nil
	}
	return "Category \"" + name + "\" created ✅", nil
}

func (s *IntentService) handleListCategories(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	categories, err := s.categoryRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		if isPT(profile.Locale) {
			return "Nenhuma categoria própria ainda. Os gastos usam categorias automáticas (mercado, transporte, comida...).", nil
		}
		return "No custom categories yet. Expenses use automatic categories (groceries, transport, food...).", nil
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	if isPT(profile.Locale) {
		return "Suas categorias: " + strings.Join(names, ", "), nil
	}
	return "Your categories: " + strings.Join(names, ", "), nil
}

func (s *IntentService) handleAddPaymentMethod(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	name := strings.TrimSpace(in.Entity(intent.EntityName))
	if name == "" {
		name = strings.TrimSpace(in.Entity(intent.EntityPaymentMethod))
	}
	if name == "" {
		return msgUnknownCommand(profile.Locale), nil
	}

	pm := &paymentmethod.PaymentMethod{UserID: profile.ID, Name: name, Kind: paymentmethod.KindCreditCard}
	if day, err := strconv.Atoi(in.Entity(intent.EntityDayOfMonth)); err == nil && day >= 1 && day <= 31 {
		pm.StatementClosingDay = sql.NullInt64{Int64: int64(day), Valid: true}
	}
	if err := s.methodRepo.Create(ctx, pm); err != nil {
		return "", fmt.Errorf("failed to create payment method: %w", err)
	}

	if isPT(profile.Locale) {
		return "Cartão \"" + name + "\" cadastrado ✅", nil
	}
	return "Card \"" + name + "\" added ✅", nil
}

func (s *IntentService) handleListPaymentMethods(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	methods, err := s.methodRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list payment methods: %w", err)
	}
	if len(methods) == 0 {
		if isPT(profile.Locale) {
			return "Nenhum cartão cadastrado. Ex.: \"cadastrar cartão nubank fechamento dia 10\".", nil
		}
		return "No cards registered. E.g.: \"add card nubank closing day 10\".", nil
	}

	var b strings.Builder
	for _, pm := range methods {
		b.WriteString("• " + pm.Name)
		if pm.StatementClosingDay.Valid {
			if isPT(profile.Locale) {
				b.WriteString(fmt.Sprintf(" (fecha dia %d", pm.StatementClosingDay.Int64))
			} else {
				b.WriteString(fmt.Sprintf(" (closes day %d", pm.StatementClosingDay.Int64))
			}
			if pm.PaymentDueDay.Valid {
				if isPT(profile.Locale) {
					b.WriteString(fmt.Sprintf(", vence dia %d", pm.PaymentDueDay.Int64))
				} else {
					b.WriteString(fmt.Sprintf(", due day %d", pm.PaymentDueDay.Int64))
				}
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (s *IntentService) handleSetClosingDay(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	day, err := strconv.Atoi(in.Entity(intent.EntityDayOfMonth))
	if err != nil || day < 1 || day > 31 {
		if isPT(profile.Locale) {
			return "Informe um dia entre 1 e 31. Ex.: /fechamento nubank 10", nil
		}
		return "Give a day between 1 and 31. E.g.: /closing nubank 10", nil
	}

	pm, err := s.pickPaymentMethod(ctx, profile, in.Entity(intent.EntityPaymentMethod))
	if err != nil {
		if isPT(profile.Locale) {
			return "Não encontrei esse cartão. Veja os nomes com /cartoes.", nil
		}
		return "I couldn't find that card. Check the names with /cards.", nil
	}

	pm.StatementClosingDay = sql.NullInt64{Int64: int64(day), Valid: true}
	if err := s.methodRepo.Update(ctx, pm); err != nil {
		return "", fmt.Errorf("failed to update closing day: %w", err)
	}

	if isPT(profile.Locale) {
		return fmt.Sprintf("Fechamento do %s definido para o dia %d ✅", pm.Name, day), nil
	}
	return fmt.Sprintf("%s statement now closes on day %d ✅", pm.Name, day), nil
}

// pickPaymentMethod resolves by name, or takes the user's only method when
// the name was omitted and there is no ambiguity.
func (s *IntentService) pickPaymentMethod(ctx context.Context, profile *user.Profile, name string) (*paymentmethod.PaymentMethod, error) {
	if name != "" {
		return s.methodRepo.GetByName(ctx, profile.ID, name)
	}
	methods, err := s.methodRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if len(methods) != 1 {
		return nil, fmt.Errorf("payment method name required, user has %d methods", len(methods))
	}
	return methods[0], nil
}

func (s *IntentService) handleCreateInstallment(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	total, err := decimal.NewFromString(in.Entity(intent.EntityAmount))
	if err != nil || total.LessThanOrEqual(decimal.Zero) {
		return msgMissingAmount(profile.Locale), nil
	}
	count, err := strconv.Atoi(in.Entity(intent.EntityInstallments))
	if err != nil || count < 2 || count > 48 {
		if isPT(profile.Locale) {
			return "Informe o número de parcelas. Ex.: \"notebook 3.000 em 10x\".", nil
		}
		return "Tell me the number of installments. E.g.: \"laptop 3000 in 10x\".", nil
	}

	description := strings.TrimSpace(in.Entity(intent.EntityDescription))
	if description == "" {
		description = "parcelamento"
	}
	categoryName := normalizeCategoryName(in.Entity(intent.EntityCategory))

	plan := &installment.Plan{
		UUID:         uuid.NewString(),
		UserID:       profile.ID,
		Description:  description,
		TotalAmount:  total,
		Installments: count,
		Category:     categoryName,
		FirstDueDate: s.now(),
	}
	if pm := s.resolvePaymentMethod(ctx, profile, in); pm != nil {
		plan.PaymentMethodID = sql.NullInt64{Int64: pm.ID, Valid: true}
	}
	if err := s.installmentRepo.Create(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to create installment plan: %w", err)
	}

	// Materialize one transaction per installment, one month apart.
	payments := make([]*transaction.Transaction, 0, count)
	for i := 1; i <= count; i++ {
		payments = append(payments, &transaction.Transaction{
			UUID:              uuid.NewString(),
			UserID:            profile.ID,
			Kind:              transaction.KindExpense,
			Description:       fmt.Sprintf("%s (%d/%d)", description, i, count),
			Amount:            plan.PaymentAmount(i),
			Category:          categoryName,
			PaymentMethodID:   plan.PaymentMethodID,
			IsInstallment:     true,
			InstallmentNumber: i,
			InstallmentTotal:  count,
			PlanUUID:          sql.NullString{String: plan.UUID, Valid: true},
			OccurredAt:        plan.FirstDueDate.AddDate(0, i-1, 0),
		})
	}
	if err := s.txRepo.BulkCreate(ctx, payments); err != nil {
		return "", fmt.Errorf("failed to create installment payments: %w", err)
	}

	perMonth := plan.PaymentAmount(1)
	if isPT(profile.Locale) {
		return fmt.Sprintf("Parcelamento criado ✅\n%s — %dx de R$ %s (total R$ %s)",
			description, count, perMonth.StringFixed(2), total.StringFixed(2)), nil
	}
	return fmt.Sprintf("Installment plan created ✅\n%s — %dx of %s (total %s)",
		description, count, perMonth.StringFixed(2), total.StringFixed(2)), nil
}

func (s *IntentService) handleListInstallments(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	plans, err := s.installmentRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list installment plans: %w", err)
	}
	if len(plans) == 0 {
		if isPT(profile.Locale) {
			return "Nenhuma compra parcelada.", nil
		}
		return "No installment purchases.", nil
	}

	var b strings.Builder
	for _, p := range plans {
		b.WriteString(fmt.Sprintf("• %s — %dx de R$ %s (total R$ %s)\n",
			p.Description, p.Installments, p.PaymentAmount(1).StringFixed(2), p.TotalAmount.StringFixed(2)))
	}
	return b.String(), nil
}

func (s *IntentService) handleAddRecurring(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	amount, err := decimal.NewFromString(in.Entity(intent.EntityAmount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return msgMissingAmount(profile.Locale), nil
	}

	day, err := strconv.Atoi(in.Entity(intent.EntityDayOfMonth))
	if err != nil || day < 1 || day > 31 {
		day = s.now().Day()
	}

	description := strings.TrimSpace(in.Entity(intent.EntityDescription))
	if description == "" {
		description = "recorrente"
	}

	rec := &recurring.RecurringTransaction{
		UserID:      profile.ID,
		Kind:        transaction.KindExpense,
		Description: description,
		Amount:      amount,
		Category:    normalizeCategoryName(in.Entity(intent.EntityCategory)),
		DayOfMonth:  day,
		Active:      true,
	}
	rec.NextRun = rec.NextOccurrence(s.now())

	if err := s.recurringRepo.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to create recurring transaction: %w", err)
	}

	if isPT(profile.Locale) {
		return fmt.Sprintf("Recorrente criado ✅\n%s — R$ %s todo dia %d", description, amount.StringFixed(2), day), nil
	}
	return fmt.Sprintf("Recurring transaction created ✅\n%s — %s on day %d", description, amount.StringFixed(2), day), nil
}

func (s *IntentService) handleListRecurring(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	recs, err := s.recurringRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list recurring transactions: %w", err)
	}
	if len(recs) == 0 {
		if isPT(profile.Locale) {
			return "Nenhum lançamento recorrente ativo.", nil
		}
		return "No active recurring transactions.", nil
	}

	var b strings.Builder
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("• [%d] %s — R$ %s (dia %d)\n", r.ID, r.Description, r.Amount.StringFixed(2), r.DayOfMonth))
	}
	if isPT(profile.Locale) {
		b.WriteString("\nPara cancelar: \"cancelar recorrente <número>\"")
	} else {
		b.WriteString("\nTo cancel: \"cancel recurring <number>\"")
	}
	return b.String(), nil
}

func (s *IntentService) handleCancelRecurring(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	id, err := strconv.ParseInt(in.Entity(intent.EntityTransactionID), 10, 64)
	if err != nil {
		return msgNothingFound(profile.Locale), nil
	}
	if err := s.recurringRepo.Deactivate(ctx, profile.ID, id); err != nil {
		return msgNothingFound(profile.Locale), nil
	}
	if isPT(profile.Locale) {
		return "Recorrente cancelado ✅", nil
	}
	return "Recurring transaction cancelled ✅", nil
}

func (s *IntentService) handleMonthlyReport(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	return s.reports.MonthlyReportText(ctx, profile.ID, profile.Locale, s.now())
}

func (s *IntentService) handleStatementSummary(ctx context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	methods, err := s.methodRepo.ListByUser(ctx, profile.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list payment methods: %w", err)
	}

	closingDay := s.defaultClosingDay
	if closingDay < 1 || closingDay > 31 {
		closingDay = billing.DefaultClosingDay
	}
	var card *paymentmethod.PaymentMethod
	for _, pm := range methods {
		if pm.StatementClosingDay.Valid {
			card = pm
			closingDay = int(pm.StatementClosingDay.Int64)
			break
		}
	}

	period := billing.StatementPeriod(s.now(), closingDay)
	summary, err := s.reports.Summarize(ctx, profile.ID, period.Start, period.End)
	if err != nil {
		return "", err
	}

	header := ""
	if card != nil {
		if isPT(profile.Locale) {
			header = "Fatura do " + card.Name + "\n"
		} else {
			header = card.Name + " statement\n"
		}
	}
	return header + formatSummary(summary, period, profile.Locale), nil
}

func (s *IntentService) handleToggleReminders(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	var statement, enabled bool
	switch in.Action {
	case intent.ActionEnableStmtRem:
		statement, enabled = true, true
		profile.StatementRemindersEnabled = true
	case intent.ActionDisableStmtRem:
		statement, enabled = true, false
		profile.StatementRemindersEnabled = false
	case intent.ActionEnableDueRem:
		enabled = true
		profile.DueRemindersEnabled = true
	case intent.ActionDisableDueRem:
		profile.DueRemindersEnabled = false
	}

	if err := s.userRepo.Update(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to update reminder preference: %w", err)
	}
	return msgRemindersToggled(profile.Locale, enabled, statement), nil
}

func (s *IntentService) handleSetLocale(ctx context.Context, profile *user.Profile, in *intent.Intent) (string, error) {
	locale := strings.TrimSpace(in.Entity(intent.EntityLocale))
	switch strings.ToLower(locale) {
	case "pt", "pt-br", "portugues", "português":
		profile.Locale = "pt-BR"
	case "en", "en-us", "english", "ingles", "inglês":
		profile.Locale = "en"
	default:
		if isPT(profile.Locale) {
			return "Idiomas disponíveis: pt-BR, en", nil
		}
		return "Available languages: pt-BR, en", nil
	}

	if err := s.userRepo.Update(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to update locale: %w", err)
	}
	return msgLocaleSet(profile.Locale), nil
}

func (s *IntentService) handleHelp(_ context.Context, profile *user.Profile, _ *intent.Intent) (string, error) {
	return msgHelp(profile.Locale), nil
}
