// Package billing computes credit-card statement periods from a
// configurable monthly closing day.
package billing

import (
	"fmt"
	"time"
)

// DefaultClosingDay is used when a payment method has no closing day configured.
const DefaultClosingDay = 5

// Period is a single billing cycle. End always falls on a closing day of
// some month; Start is exactly one day after the previous period's End,
// so consecutive periods have no gaps and no overlaps.
type Period struct {
	Start time.Time
	End   time.Time
}

// StatementPeriod returns the billing cycle that a given day belongs to.
// If today's day-of-month is on or before the closing day, the period ends
// on the closing day of the current month; otherwise it ends on the closing
// day of the next month. closingDay values outside [1,31] fall back to
// DefaultClosingDay. Closing days longer than the month (e.g. 31 in April)
// clamp to the month's last day.
func StatementPeriod(today time.Time, closingDay int) Period {
	if closingDay < 1 || closingDay > 31 {
		closingDay = DefaultClosingDay
	}

	year, month, _ := today.Date()
	loc := today.Location()

	var end time.Time
	if today.Day() <= closingDay {
		end = closingDate(year, month, closingDay, loc)
	} else {
		end = closingDate(year, month+1, closingDay, loc)
	}
	// Start is the day after the previous month's closing date. time.Date
	// normalizes month-1 across the January boundary.
	endYear, endMonth, _ := end.Date()
	start := closingDate(endYear, endMonth-1, closingDay, loc).AddDate(0, 0, 1)

	return Period{Start: start, End: end}
}

// closingDate builds the closing date for a month, clamping the day to the
// month's length. The month argument may be out of [1,12]; time.Date
// normalizes it, which is what makes December→January rollover work.
func closingDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Contains reports whether d falls inside the period, inclusive on both
// boundaries. Only the calendar date matters; time-of-day is ignored.
func (p Period) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, d.Location())
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, d.Location())
	return !day.Before(start) && !day.After(end)
}

var monthNamesPTBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Format renders the period for user display. pt-BR uses Portuguese month
// names; any other locale falls back to English. Periods crossing a year
// boundary show both years.
func (p Period) Format(locale string) string {
	if locale == "pt-BR" {
		if p.Start.Year() != p.End.Year() {
			return fmt.Sprintf("%02d de %s de %d a %02d de %s de %d",
				p.Start.Day(), monthNamesPTBR[p.Start.Month()-1], p.Start.Year(),
				p.End.Day(), monthNamesPTBR[p.End.Month()-1], p.End.Year())
		}
		return fmt.Sprintf("%02d de %s a %02d de %s de %d",
			p.Start.Day(), monthNamesPTBR[p.Start.Month()-1],
			p.End.Day(), monthNamesPTBR[p.End.Month()-1], p.End.Year())
	}

	if p.Start.Year() != p.End.Year() {
		return fmt.Sprintf("%s %d, %d – %s %d, %d",
			p.Start.Month().String(), p.Start.Day(), p.Start.Year(),
			p.End.Month().String(), p.End.Day(), p.End.Year())
	}
	return fmt.Sprintf("%s %d – %s %d, %d",
		p.Start.Month().String(), p.Start.Day(),
		p.End.Month().String(), p.End.Day(), p.End.Year())
}
