package derive

import "time"

// Weekday numbering used across the system: 1=Sunday .. 7=Saturday.

var weekdayNames = [8]string{"", "일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// Weekday1to7 converts a time to the 1..7 scale.
func Weekday1to7(t time.Time) int {
	return int(t.Weekday()) + 1
}

// WeekdayLabel returns the localized weekday name for 1..7, or "" out of range.
func WeekdayLabel(day int) string {
	if day < 1 || day > 7 {
		return ""
	}
	return weekdayNames[day]
}

// TomorrowWeekday returns tomorrow's weekday on the 1..7 scale, used for the
// "tomorrow's refresh list" grouping.
func TomorrowWeekday(today time.Time) int {
	return Weekday1to7(DateOf(today).AddDate(0, 0, 1))
}
