package datetime

import (
	"fmt"
	"strings"
	"time"
)

// TimeFormat selects 12-hour or 24-hour clock rendering
type TimeFormat string

const (
	Format12h TimeFormat = "12"
	Format24h TimeFormat = "24"
)

// dateLayout is the en-US long date, e.g. "Wednesday, October 14, 2026"
const dateLayout = "Monday, January 2, 2006"

// ParseTimeFormat accepts "12", "24", "12h" and "24h"
func ParseTimeFormat(s string) (TimeFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "12", "12h":
		return Format12h, true
	case "24", "24h":
		return Format24h, true
	}
	return Format12h, false
}

// Output is one rendering of the clock
type Output struct {
	Date string
	Time string
}

// FormatDate renders the weekday, month, day and year of t
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders t as "HH:MM:SS" in 24-hour mode and "hh:MM:SS AM|PM"
// otherwise. Any format other than Format24h is treated as 12-hour.
func FormatTime(t time.Time, f TimeFormat) string {
	h, m, s := t.Clock()
	if f == Format24h {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%02d:%02d:%02d %s", display, m, s, ampm)
}

// Render produces both clock strings for t
func Render(t time.Time, f TimeFormat) Output {
	return Output{Date: FormatDate(t), Time: FormatTime(t, f)}
}
