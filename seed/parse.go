package seed

import (
	"strconv"
	"strings"
	"time"
)

// excelEpoch is the base of Excel's 1900 date system (with its leap-year bug
// already accounted for).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func excelSerialToDate(serial int) time.Time {
	return excelEpoch.AddDate(0, 0, serial)
}

// ParseBool accepts the spreadsheet truthy spellings.
func ParseBool(value string, def bool) bool {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return def
	}
	switch s {
	case "true", "1", "y", "yes", "t", "on":
		return true
	default:
		return false
	}
}

// ParseInt strips thousands separators; empty or malformed input returns def.
func ParseInt(value string, def int) int {
	s := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006년 01월 02일",
}

// ParseDate handles the date spellings found in the source sheets: ISO-ish
// formats, a Korean long form, and raw Excel serial numbers (>= 30000 to
// avoid misreading small integers as dates). Returns nil when unparseable.
func ParseDate(value string) *time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n == float64(int(n)) && n >= 30000 {
			t := excelSerialToDate(int(n))
			return &t
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}
