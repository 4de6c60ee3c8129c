package intent

import (
	"context"
	"strings"
)

// CommandStage matches explicit slash commands. It is the cheapest and most
// precise stage and therefore runs first.
type CommandStage struct{}

func NewCommandStage() *CommandStage { return &CommandStage{} }

func (s *CommandStage) Name() string { return "command" }

// Commands with no arguments map straight to an action.
var bareCommands = map[string]Action{
	"/start":        ActionHelp,
	"/help":         ActionHelp,
	"/ajuda":        ActionHelp,
	"/report":       ActionMonthlyReport,
	"/relatorio":    ActionMonthlyReport,
	"/statement":    ActionStatementSummary,
	"/fatura":       ActionStatementSummary,
	"/budget":       ActionBudgetStatus,
	"/orcamento":    ActionBudgetStatus,
	"/expenses":     ActionListExpenses,
	"/gastos":       ActionListExpenses,
	"/categories":   ActionListCategories,
	"/categorias":   ActionListCategories,
	"/cards":        ActionListPaymentMeths,
	"/cartoes":      ActionListPaymentMeths,
	"/recurring":    ActionListRecurring,
	"/recorrentes":  ActionListRecurring,
	"/installments": ActionListInstallments,
	"/parcelas":     ActionListInstallments,
}

func (s *CommandStage) Parse(_ context.Context, msg *Message) (*Intent, error) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return nil, ErrNoMatch
	}

	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	// Telegram group-style suffix: /fatura@MyBot
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}
	args := fields[1:]

	if action, ok := bareCommands[command]; ok {
		return &Intent{Action: action, Confidence: 1, Entities: map[string]string{}}, nil
	}

	switch command {
	case "/delete", "/apagar":
		if len(args) != 1 {
			return nil, ErrNoMatch
		}
		return &Intent{Action: ActionDeleteTransaction, Confidence: 1,
			Entities: map[string]string{EntityTransactionID: args[0]}}, nil
	case "/language", "/idioma":
		if len(args) != 1 {
			return nil, ErrNoMatch
		}
		return &Intent{Action: ActionSetLocale, Confidence: 1,
			Entities: map[string]string{EntityLocale: args[0]}}, nil
	case "/closing", "/fechamento":
		if len(args) < 1 {
			return nil, ErrNoMatch
		}
		entities := map[string]string{EntityDayOfMonth: args[len(args)-1]}
		if len(args) > 1 {
			entities[EntityPaymentMethod] = strings.Join(args[:len(args)-1], " ")
		}
		return &Intent{Action: ActionSetClosingDay, Confidence: 1, Entities: entities}, nil
	case "/statement_reminders", "/lembretes_fatura":
		return toggleIntent(args, ActionEnableStmtRem, ActionDisableStmtRem)
	case "/due_reminders", "/lembretes_vencimento":
		return toggleIntent(args, ActionEnableDueRem, ActionDisableDueRem)
	}

	return nil, ErrNoMatch
}

func toggleIntent(args []string, enable, disable Action) (*Intent, error) {
	if len(args) != 1 {
		return nil, ErrNoMatch
	}
	switch strings.ToLower(args[0]) {
	case "on", "sim", "ativar":
		return &Intent{Action: enable, Confidence: 1, Entities: map[string]string{}}, nil
	case "off", "nao", "não", "desativar":
		return &Intent{Action: disable, Confidence: 1, Entities: map[string]string{}}, nil
	}
	return nil, ErrNoMatch
}
