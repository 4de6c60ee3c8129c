// Package intent models the structured result of interpreting a free-text
// chat message, and the layered parser cascade that produces it.
package intent

import (
	"regexp"
	"strings"
)

// Action identifies which domain operation a parsed message asks for.
type Action string

const (
	ActionAddExpense        Action = "add_expense"
	ActionAddIncome         Action = "add_income"
	ActionListExpenses      Action = "list_expenses"
	ActionDeleteTransaction Action = "delete_transaction"
	ActionSetBudget         Action = "set_budget"
	ActionGetBudget         Action = "get_budget"
	ActionBudgetStatus      Action = "budget_status"
	ActionAddCategory       Action = "add_category"
	ActionListCategories    Action = "list_categories"
	ActionAddPaymentMethod  Action = "add_payment_method"
	ActionListPaymentMeths  Action = "list_payment_methods"
	ActionSetClosingDay     Action = "set_closing_day"
	ActionCreateInstallment Action = "create_installment"
	ActionListInstallments  Action = "list_installments"
	ActionAddRecurring      Action = "add_recurring"
	ActionListRecurring     Action = "list_recurring"
	ActionCancelRecurring   Action = "cancel_recurring"
	ActionMonthlyReport     Action = "monthly_report"
	ActionStatementSummary  Action = "statement_summary"
	ActionEnableStmtRem     Action = "enable_statement_reminders"
	ActionDisableStmtRem    Action = "disable_statement_reminders"
	ActionEnableDueRem      Action = "enable_due_reminders"
	ActionDisableDueRem     Action = "disable_due_reminders"
	ActionSetLocale         Action = "set_locale"
	ActionHelp              Action = "help"
	ActionUnknown           Action = "unknown"
)

// KnownActions is the closed set an LLM response is validated against.
var KnownActions = map[Action]bool{
	ActionAddExpense: true, ActionAddIncome: true, ActionListExpenses: true,
	ActionDeleteTransaction: true, ActionSetBudget: true, ActionGetBudget: true,
	ActionBudgetStatus: true, ActionAddCategory: true, ActionListCategories: true,
	ActionAddPaymentMethod: true, ActionListPaymentMeths: true, ActionSetClosingDay: true,
	ActionCreateInstallment: true, ActionListInstallments: true, ActionAddRecurring: true,
	ActionListRecurring: true, ActionCancelRecurring: true, ActionMonthlyReport: true,
	ActionStatementSummary: true, ActionEnableStmtRem: true, ActionDisableStmtRem: true,
	ActionEnableDueRem: true, ActionDisableDueRem: true, ActionSetLocale: true,
	ActionHelp: true,
}

// Common entity keys produced by the parser stages.
const (
	EntityAmount        = "amount"
	EntityDescription   = "description"
	EntityCategory      = "category"
	EntityPaymentMethod = "payment_method"
	EntityInstallments  = "installments"
	EntityDayOfMonth    = "day_of_month"
	EntityTransactionID = "transaction_id"
	EntityLocale        = "locale"
	EntityName          = "name"
)

// Message is an inbound chat message plus the context the stages need.
type Message struct {
	UserID int64
	ChatID string
	Text   string
	Locale string
}

// Intent is the ephemeral parse result, discarded after execution.
// Strategy names the cascade stage that produced it, for analytics.
type Intent struct {
	Action     Action
	Confidence float64
	Entities   map[string]string
	Strategy   string
}

// Entity returns an entity value or "" when absent.
func (i *Intent) Entity(key string) string {
	if i.Entities == nil {
		return ""
	}
	return i.Entities[key]
}

var whitespaceRE = regexp.MustCompile(`\s+`)
var punctRE = regexp.MustCompile(`[.,!?;:"']+$`)

// Normalize produces the canonical form of a message used as the lookup key
// for learned patterns and the semantic cache.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = punctRE.ReplaceAllString(s, "")
	return whitespaceRE.ReplaceAllString(s, " ")
}
