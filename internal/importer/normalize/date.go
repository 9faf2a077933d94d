package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ISOWeekCode resolves a six-digit "YYYYWW" code to the Monday of that
// ISO week. Week 1 is the week containing January 4th.
func ISOWeekCode(code string) (time.Time, error) {
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return time.Time{}, fmt.Errorf("week code %q is not YYYYWW", code)
	}
	year, err := strconv.Atoi(code[:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("week code %q is not YYYYWW", code)
	}
	week, err := strconv.Atoi(code[4:])
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("week code %q has invalid week number", code)
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := mondayOnOrBefore(jan4)
	return week1Monday.AddDate(0, 0, (week-1)*7), nil
}

// MonthWeek resolves a "Mon Wk N YYYY" label to the Nth Monday counted
// from the first Monday on or after the 1st of the month.
func MonthWeek(label string) (time.Time, error) {
	parts := strings.Fields(strings.TrimSpace(label))
	if len(parts) != 4 || !strings.EqualFold(parts[1], "wk") {
		return time.Time{}, fmt.Errorf("week label %q is not in Mon Wk N YYYY form", label)
	}
	month, ok := monthAbbrev[strings.ToLower(parts[0])]
	if !ok {
		return time.Time{}, fmt.Errorf("week label %q has unknown month %q", label, parts[0])
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return time.Time{}, fmt.Errorf("week label %q has invalid week ordinal %q", label, parts[2])
	}
	year, err := strconv.Atoi(parts[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("week label %q has invalid year %q", label, parts[3])
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	firstMonday := first.AddDate(0, 0, offset)
	return firstMonday.AddDate(0, 0, (n-1)*7), nil
}

// FiscalWeekEnding resolves a "Fiscal Week Ending MM-DD-YYYY" label to
// the Sunday six days before the stated end date.
func FiscalWeekEnding(label string) (time.Time, error) {
	s := strings.TrimSpace(label)
	const prefix = "fiscal week ending"
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return time.Time{}, fmt.Errorf("week label %q is not a fiscal week ending", label)
	}
	datePart := strings.TrimSpace(s[len(prefix):])
	end, err := time.ParseInLocation("01-02-2006", datePart, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("week label %q has invalid end date %q", label, datePart)
	}
	return end.AddDate(0, 0, -6), nil
}

// excelEpoch is day zero of the 1900 date system as spreadsheets store
// it, accounting for the fictitious 1900 leap day.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerial resolves a spreadsheet date serial to the Monday of its
// week. Only the first five digits are read, which tolerates serials
// that arrive with fractional time or trailing garbage.
func ExcelSerial(literal string) (time.Time, error) {
	s := strings.TrimSpace(literal)
	digits := s
	if len(digits) > 5 {
		digits = digits[:5]
	}
	serial, err := strconv.Atoi(digits)
	if err != nil || serial <= 0 {
		return time.Time{}, fmt.Errorf("date serial %q is not numeric", literal)
	}
	d := excelEpoch.AddDate(0, 0, serial)
	return mondayOnOrBefore(d), nil
}

// WarehouseDate parses an ISO calendar date, tolerating a trailing
// time component as emitted by some warehouse drivers.
func WarehouseDate(literal string) (time.Time, error) {
	s := strings.TrimSpace(literal)
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, nil
	}
	if i := strings.IndexAny(s, " T"); i > 0 {
		if t, err := time.ParseInLocation("2006-01-02", s[:i], time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not an ISO calendar date", literal)
}

// ISODate parses a plain YYYY-MM-DD literal, falling back to a
// spreadsheet serial when the literal is purely numeric.
func ISODate(literal string) (time.Time, error) {
	s := strings.TrimSpace(literal)
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, nil
	}
	if isDigits(s) {
		return ExcelSerial(s)
	}
	return time.Time{}, fmt.Errorf("date %q is not an ISO calendar date", literal)
}

func mondayOnOrBefore(d time.Time) time.Time {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
