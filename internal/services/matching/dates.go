package matching

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var localeDateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"2006/1/2",
	"2006-1-2",
	"2006.01.02",
	"2006年1月2日",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
	"2006-1-2 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"20060102",
}

// Excel serials outside this window are treated as plain numbers (1954..2119).
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseDate parses a spreadsheet date cell to a calendar date (time of day dropped).
// layout, when set, is tried first.
func ParseDate(raw, layout string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if layout != "" {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	for _, l := range localeDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return truncateDay(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders parseable cells as YYYY-MM-DD and leaves anything else as is.
func FormatDate(raw string) string {
	if t, ok := ParseDate(raw, ""); ok {
		return t.Format("2006-01-02")
	}
	return raw
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
