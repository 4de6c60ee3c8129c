// internal/app/replies.go
package app

import "strings"

// isPT reports whether the locale is any Portuguese variant. Everything
// else falls back to English.
func isPT(locale string) bool {
	return strings.HasPrefix(strings.ToLower(locale), "pt")
}

func msgUnknownCommand(locale string) string {
	if isPT(locale) {
		return "Não entendi 🤔 Tente algo como \"mercado 54,90\" ou envie /ajuda para ver os comandos."
	}
	return "I didn't understand that 🤔 Try something like \"groceries 54.90\" or send /help for the command list."
}

func msgSomethingWentWrong(locale string) string {
	if isPT(locale) {
		return "Ops, algo deu errado. Tente novamente em instantes."
	}
	return "Oops, something went wrong. Please try again in a moment."
}

func msgHelp(locale string) string {
	if isPT(locale) {
		return "Eu registro suas finanças por mensagem. Exemplos:\n\n" +
			"• \"mercado 54,90\" — registra um gasto\n" +
			"• \"recebi salário 3.500\" — registra uma receita\n" +
			"• \"notebook 3.000 em 10x\" — compra parcelada\n" +
			"• \"definir orçamento mercado 800\" — limite mensal\n\n" +
			"Comandos:\n" +
			"/fatura — resumo da fatura atual\n" +
			"/relatorio — resumo do mês\n" +
			"/orcamento — status dos orçamentos\n" +
			"/gastos — últimos lançamentos\n" +
			"/cartoes — seus cartões\n" +
			"/parcelas — compras parceladas\n" +
			"/recorrentes — lançamentos recorrentes\n" +
			"/fechamento <cartão> <dia> — dia de fechamento\n" +
			"/lembretes_fatura on|off — lembretes de fechamento\n" +
			"/lembretes_vencimento on|off — lembretes de vencimento\n" +
			"/idioma pt-BR|en — idioma"
	}
	return "I track your finances over chat. Examples:\n\n" +
		"• \"groceries 54.90\" — log an expense\n" +
		"• \"received salary 3500\" — log income\n" +
		"• \"laptop 3000 in 10x\" — installment purchase\n" +
		"• \"set budget groceries 800\" — monthly limit\n\n" +
		"Commands:\n" +
		"/statement — current statement summary\n" +
		"/report — monthly summary\n" +
		"/budget — budget status\n" +
		"/expenses — recent transactions\n" +
		"/cards — your cards\n" +
		"/installments — installment purchases\n" +
		"/recurring — recurring transactions\n" +
		"/closing <card> <day> — statement closing day\n" +
		"/statement_reminders on|off\n" +
		"/due_reminders on|off\n" +
		"/language pt-BR|en"
}

func msgMissingAmount(locale string) string {
	if isPT(locale) {
		return "Não encontrei o valor. Informe algo como \"mercado 54,90\"."
	}
	return "I couldn't find the amount. Say something like \"groceries 54.90\"."
}

func msgConfirmDelete(locale, description, amount string) string {
	if isPT(locale) {
		return "Apagar \"" + description + "\" (R$ " + amount + ")? Responda sim ou não."
	}
	return "Delete \"" + description + "\" (" + amount + ")? Reply yes or no."
}

func msgDeleteCancelled(locale string) string {
	if isPT(locale) {
		return "Ok, nada foi apagado."
	}
	return "Ok, nothing was deleted."
}

func msgDeleted(locale string) string {
	if isPT(locale) {
		return "Lançamento apagado ✅"
	}
	return "Transaction deleted ✅"
}

func msgNothingFound(locale string) string {
	if isPT(locale) {
		return "Não encontrei nada com esse identificador."
	}
	return "I couldn't find anything with that id."
}

func msgRemindersToggled(locale string, enabled bool, statement bool) string {
	if isPT(locale) {
		kind := "vencimento"
		if statement {
			kind = "fechamento de fatura"
		}
		if enabled {
			return "Lembretes de " + kind + " ativados ✅"
		}
		return "Lembretes de " + kind + " desativados."
	}
	kind := "Payment due"
	if statement {
		kind = "Statement closing"
	}
	if enabled {
		return kind + " reminders enabled ✅"
	}
	return kind + " reminders disabled."
}

func msgLocaleSet(locale string) string {
	if isPT(locale) {
		return "Idioma atualizado para português 🇧🇷"
	}
	return "Language switched to English 🇺🇸"
}
