package accounting

import (
	"fmt"
	"time"
)

// FinancialYear returns the "YYYY-YY" financial year label for a date, given
// the first month of the company's financial year (1-12). With an April start,
// 2024-03-15 falls in "2023-24" and 2024-04-01 in "2024-25".
func FinancialYear(date time.Time, fyStartMonth int) string {
	if fyStartMonth < 1 || fyStartMonth > 12 {
		fyStartMonth = 1
	}
	startYear := date.Year()
	if int(date.Month()) < fyStartMonth {
		startYear--
	}
	if fyStartMonth == 1 {
		return fmt.Sprintf("%d", startYear)
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// FYBounds returns the inclusive start and exclusive end of a financial year
// containing the given date.
func FYBounds(date time.Time, fyStartMonth int) (time.Time, time.Time) {
	if fyStartMonth < 1 || fyStartMonth > 12 {
		fyStartMonth = 1
	}
	startYear := date.Year()
	if int(date.Month()) < fyStartMonth {
		startYear--
	}
	start := time.Date(startYear, time.Month(fyStartMonth), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// PeriodMonth returns the calendar month (1-12) used as the period key.
func PeriodMonth(date time.Time) int {
	return int(date.Month())
}
