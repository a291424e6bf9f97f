package sim

import (
	"fmt"
	"strings"
	"time"
)

// TimeInterval selects the period length for simulation progression.
type TimeInterval string

const (
	IntervalMonthly   TimeInterval = "MONTHLY"
	IntervalQuarterly TimeInterval = "QUARTERLY"
	IntervalAnnual    TimeInterval = "ANNUAL"
)

// ParseTimeInterval maps a config string to a TimeInterval.
// Unrecognized values are a ConfigurationError.
func ParseTimeInterval(s string) (TimeInterval, error) {
	switch TimeInterval(strings.ToUpper(s)) {
	case IntervalMonthly:
		return IntervalMonthly, nil
	case IntervalQuarterly:
		return IntervalQuarterly, nil
	case IntervalAnnual:
		return IntervalAnnual, nil
	}
	return "", NewConfigurationError("simulation.time_interval",
		"unrecognized interval %q (want MONTHLY, QUARTERLY or ANNUAL)", s)
}

// Clock tracks the current simulated period and fiscal-year boundaries.
//
// Fiscal years start at the configured month/day (default April 1). The clock
// keeps the start date of the fiscal year containing the current date; Advance
// reports when a step crosses into the next fiscal year.
type Clock struct {
	start   time.Time
	end     time.Time
	current time.Time

	interval TimeInterval
	fyMonth  time.Month
	fyDay    int

	fiscalYearStart time.Time
}

// NewClock validates the date range and interval and positions the clock at
// the start date.
func NewClock(start, end time.Time, interval TimeInterval, fyMonth time.Month, fyDay int) (*Clock, error) {
	if start.After(end) {
		return nil, NewConfigurationError("simulation",
			"start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	switch interval {
	case IntervalMonthly, IntervalQuarterly, IntervalAnnual:
	default:
		return nil, NewConfigurationError("simulation.time_interval", "unrecognized interval %q", interval)
	}
	if fyMonth < time.January || fyMonth > time.December {
		return nil, NewConfigurationError("simulation.fiscal_year_start_month", "month %d out of range", fyMonth)
	}
	if fyDay < 1 || fyDay > 31 {
		return nil, NewConfigurationError("simulation.fiscal_year_start_day", "day %d out of range", fyDay)
	}
	c := &Clock{
		start:    start,
		end:      end,
		current:  start,
		interval: interval,
		fyMonth:  fyMonth,
		fyDay:    fyDay,
	}
	// Fiscal year start on or before the current date.
	fy := time.Date(start.Year(), fyMonth, fyDay, 0, 0, 0, 0, time.UTC)
	if start.Before(fy) {
		fy = time.Date(start.Year()-1, fyMonth, fyDay, 0, 0, 0, 0, time.UTC)
	}
	c.fiscalYearStart = fy
	return c, nil
}

// CurrentDate returns the current simulated date.
func (c *Clock) CurrentDate() time.Time { return c.current }

// Done reports whether the current date has passed the end date. The end
// date itself is inclusive.
func (c *Clock) Done() bool { return c.current.After(c.end) }

// Advance moves to the next period per the configured interval and reports
// whether the step crossed into a new fiscal year.
func (c *Clock) Advance() bool {
	switch c.interval {
	case IntervalMonthly:
		c.current = addMonths(c.current, 1)
	case IntervalQuarterly:
		c.current = addMonths(c.current, 3)
	case IntervalAnnual:
		c.current = addMonths(c.current, 12)
	}

	next := time.Date(c.fiscalYearStart.Year()+1, c.fyMonth, c.fyDay, 0, 0, 0, 0, time.UTC)
	if !c.current.Before(next) {
		c.fiscalYearStart = next
		return true
	}
	return false
}

// IsFiscalYearStart reports whether the current date is exactly a fiscal-year
// start date.
func (c *Clock) IsFiscalYearStart() bool {
	return c.current.Month() == c.fyMonth && c.current.Day() == c.fyDay
}

// CurrentPeriod returns the label for the current period: "2025-04" for
// monthly, "2025-Q2" for quarterly, "2025" for annual intervals.
func (c *Clock) CurrentPeriod() string {
	switch c.interval {
	case IntervalQuarterly:
		quarter := (int(c.current.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", c.current.Year(), quarter)
	case IntervalAnnual:
		return fmt.Sprintf("%d", c.current.Year())
	default:
		return c.current.Format("2006-01")
	}
}

// FiscalYear returns the identifier of the fiscal year containing the
// current date, e.g. "FY2025".
func (c *Clock) FiscalYear() string {
	return fmt.Sprintf("FY%d", c.fiscalYearStart.Year())
}

// addMonths advances by n months, clamping the day to the end of the target
// month so that month-end dates do not spill into the following month
// (time.AddDate would turn Jan 31 + 1 month into Mar 2).
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
