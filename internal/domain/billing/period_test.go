package billing

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatementPeriod_BeforeOrOnClosingDay(t *testing.T) {
	// Jan 3 with closing day 5: period ends Jan 5, starts Dec 6 of prior year.
	p := StatementPeriod(date(2025, time.January, 3), 5)
	if !p.Start.Equal(date(2024, time.December, 6)) {
		t.Errorf("Start = %v, want 2024-12-06", p.Start)
	}
	if !p.End.Equal(date(2025, time.January, 5)) {
		t.Errorf("End = %v, want 2025-01-05", p.End)
	}
}

func TestStatementPeriod_OnClosingDayEndsThisMonth(t *testing.T) {
	p := StatementPeriod(date(2025, time.March, 5), 5)
	if !p.End.Equal(date(2025, time.March, 5)) {
		t.Errorf("End = %v, want 2025-03-05", p.End)
	}
	if !p.Start.Equal(date(2025, time.February, 6)) {
		t.Errorf("Start = %v, want 2025-02-06", p.Start)
	}
}

func TestStatementPeriod_AfterClosingDayEndsNextMonth(t *testing.T) {
	p := StatementPeriod(date(2024, time.December, 10), 5)
	if !p.Start.Equal(date(2024, time.December, 6)) {
		t.Errorf("Start = %v, want 2024-12-06", p.Start)
	}
	if !p.End.Equal(date(2025, time.January, 5)) {
		t.Errorf("End = %v, want 2025-01-05", p.End)
	}
}

func TestStatementPeriod_DefaultClosingDay(t *testing.T) {
	today := date(2024, time.December, 10)
	got := StatementPeriod(today, 0)
	want := StatementPeriod(today, 5)
	if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Errorf("default closing day: got %+v, want %+v", got, want)
	}
}

// For every closing day that exists in all months, the period end lands on
// that day and the start is exactly one day after the previous period's end.
func TestStatementPeriod_NoGapsNoOverlaps(t *testing.T) {
	for closingDay := 1; closingDay <= 28; closingDay++ {
		d := date(2024, time.January, 1)
		for i := 0; i < 420; i++ { // Cover more than a full year of days
			p := StatementPeriod(d, closingDay)
			if p.End.Day() != closingDay {
				t.Fatalf("closingDay=%d today=%v: End day = %d", closingDay, d, p.End.Day())
			}
			prev := StatementPeriod(p.Start.AddDate(0, 0, -1), closingDay)
			if !prev.End.AddDate(0, 0, 1).Equal(p.Start) {
				t.Fatalf("closingDay=%d today=%v: Start %v is not previous End %v + 1 day",
					closingDay, d, p.Start, prev.End)
			}
			if !p.Contains(d) {
				t.Fatalf("closingDay=%d: period %+v does not contain its own anchor day %v", closingDay, p, d)
			}
			d = d.AddDate(0, 0, 1)
		}
	}
}

func TestStatementPeriod_ClampsShortMonths(t *testing.T) {
	// Closing day 31 in a period touching February clamps to the month's last day.
	p := StatementPeriod(date(2025, time.February, 10), 31)
	if !p.End.Equal(date(2025, time.February, 28)) {
		t.Errorf("End = %v, want 2025-02-28", p.End)
	}
	if !p.Start.Equal(date(2025, time.February, 1)) {
		t.Errorf("Start = %v, want 2025-02-01", p.Start)
	}
}

func TestContains_InclusiveBoundaries(t *testing.T) {
	p := Period{Start: date(2024, time.December, 6), End: date(2025, time.January, 5)}

	cases := []struct {
		d    time.Time
		want bool
	}{
		{date(2024, time.December, 6), true},
		{date(2025, time.January, 5), true},
		{date(2024, time.December, 20), true},
		{date(2024, time.December, 5), false},
		{date(2025, time.January, 6), false},
	}
	for _, c := range cases {
		if got := p.Contains(c.d); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestFormat(t *testing.T) {
	crossYear := Period{Start: date(2024, time.December, 6), End: date(2025, time.January, 5)}
	sameYear := Period{Start: date(2025, time.May, 6), End: date(2025, time.June, 5)}

	cases := []struct {
		name   string
		p      Period
		locale string
		want   string
	}{
		{"pt-BR cross-year", crossYear, "pt-BR", "06 de dezembro de 2024 a 05 de janeiro de 2025"},
		{"pt-BR same-year", sameYear, "pt-BR", "06 de maio a 05 de junho de 2025"},
		{"en cross-year", crossYear, "en", "December 6, 2024 – January 5, 2025"},
		{"en same-year", sameYear, "en", "May 6 – June 5, 2025"},
	}
	for _, c := range cases {
		if got := c.p.Format(c.locale); got != c.want {
			t.Errorf("%s: Format = %q, want %q", c.name, got, c.want)
		}
	}
}
