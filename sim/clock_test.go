package sim

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClock_MonthlyAdvance(t *testing.T) {
	c, err := NewClock(date(2025, 4, 1), date(2025, 7, 1), IntervalMonthly, time.April, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.CurrentPeriod(); got != "2025-04" {
		t.Errorf("initial period = %q, want 2025-04", got)
	}
	c.Advance()
	if got := c.CurrentPeriod(); got != "2025-05" {
		t.Errorf("after advance period = %q, want 2025-05", got)
	}
}

func TestClock_QuarterlyAndAnnualLabels(t *testing.T) {
	c, err := NewClock(date(2025, 4, 1), date(2027, 1, 1), IntervalQuarterly, time.April, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.CurrentPeriod(); got != "2025-Q2" {
		t.Errorf("quarterly period = %q, want 2025-Q2", got)
	}
	c.Advance()
	if got := c.CurrentPeriod(); got != "2025-Q3" {
		t.Errorf("quarterly period = %q, want 2025-Q3", got)
	}

	a, err := NewClock(date(2025, 1, 1), date(2030, 1, 1), IntervalAnnual, time.April, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.CurrentPeriod(); got != "2025" {
		t.Errorf("annual period = %q, want 2025", got)
	}
	a.Advance()
	if got := a.CurrentPeriod(); got != "2026" {
		t.Errorf("annual period = %q, want 2026", got)
	}
}

func TestClock_FiscalYearTransition(t *testing.T) {
	c, err := NewClock(date(2026, 2, 1), date(2026, 6, 1), IntervalMonthly, time.April, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.FiscalYear() != "FY2025" {
		t.Errorf("fiscal year = %q, want FY2025", c.FiscalYear())
	}
	if c.Advance() { // Feb → Mar, same fiscal year
		t.Error("Feb→Mar should not cross fiscal boundary")
	}
	if !c.Advance() { // Mar → Apr crosses
		t.Error("Mar→Apr should cross fiscal boundary")
	}
	if c.FiscalYear() != "FY2026" {
		t.Errorf("fiscal year after crossing = %q, want FY2026", c.FiscalYear())
	}
	if !c.IsFiscalYearStart() {
		t.Error("Apr 1 should be a fiscal year start date")
	}
}

func TestClock_EndDateInclusive(t *testing.T) {
	c, err := NewClock(date(2025, 4, 1), date(2025, 5, 1), IntervalMonthly, time.April, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Done() {
		t.Error("clock done at start")
	}
	c.Advance() // → May 1, still within range
	if c.Done() {
		t.Error("clock done on the inclusive end date")
	}
	c.Advance() // → June 1, past end
	if !c.Done() {
		t.Error("clock not done past the end date")
	}
}

func TestClock_StartAfterEnd(t *testing.T) {
	_, err := NewClock(date(2026, 1, 1), date(2025, 1, 1), IntervalMonthly, time.April, 1)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want ConfigurationError for inverted range, got %v", err)
	}
}

func TestParseTimeInterval(t *testing.T) {
	if _, err := ParseTimeInterval("monthly"); err != nil {
		t.Errorf("lowercase monthly should parse: %v", err)
	}
	_, err := ParseTimeInterval("WEEKLY")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want ConfigurationError for WEEKLY, got %v", err)
	}
}

func TestAddMonths_ClampsMonthEnd(t *testing.T) {
	got := addMonths(date(2025, 1, 31), 1)
	if got != date(2025, 2, 28) {
		t.Errorf("Jan 31 + 1 month = %s, want 2025-02-28", got.Format("2006-01-02"))
	}
}
