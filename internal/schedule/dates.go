package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the wire format used for lesson dates throughout the system.
// Lexicographic order on this layout matches chronological order.
const DateLayout = "2006-01-02"

// AddDays shifts a YYYY-MM-DD date string by the given number of days.
func AddDays(dateStr string, days int) (string, error) {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	return date.AddDate(0, 0, days).Format(DateLayout), nil
}

// FormatDisplay renders a YYYY-MM-DD date as the short D/M form used in the
// timetable grid, without leading zeros ("2024-03-09" becomes "9/3").
func FormatDisplay(dateStr string) string {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%d/%d", date.Day(), int(date.Month()))
}
