package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// The sheet engine counts days from 1899-12-30, which puts the Unix epoch at
// serial 25569.
const serialEpochOffsetDays = 25569

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	brDatePattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// ParseAnyDate normalizes the three encodings the sheet delivers dates in:
// a numeric spreadsheet serial, yyyy-mm-dd, or dd/mm/yyyy. Anything else
// falls back to RFC 3339. The canonical value is midnight UTC of the calendar
// day, so the same day compares equal whatever the source encoding.
//
// Serial numbers and RFC 3339 instants are read in loc before the day is
// extracted: the serial 45292 means 2023-12-31 to a reader in São Paulo even
// though the raw instant lands on 2024-01-01 UTC. The two positional string
// forms already carry a calendar day and are never zone shifted.
func ParseAnyDate(raw any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case float64:
		return serialDay(v, loc), true
	case int:
		return serialDay(float64(v), loc), true
	case int64:
		return serialDay(float64(v), loc), true
	case string:
		return parseDateString(v, loc)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if isoDatePattern.MatchString(s) {
		return calendarDay(s[:4], s[5:7], s[8:10])
	}
	if brDatePattern.MatchString(s) {
		return calendarDay(s[6:], s[3:5], s[:2])
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return dayIn(t, loc), true
}

func serialDay(serial float64, loc *time.Location) time.Time {
	secs := (serial - serialEpochOffsetDays) * 86400
	return dayIn(time.Unix(int64(secs), 0), loc)
}

func dayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// calendarDay builds the day from positional digits and rejects values that
// only normalize into a real date (e.g. 31/02 rolling over into March).
func calendarDay(year, month, day string) (time.Time, bool) {
	y := atoi(year)
	m := atoi(month)
	d := atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// FormatDateDisplay renders a raw date value as dd/mm/yyyy. Serial numbers go
// through the epoch conversion, ISO strings are reordered positionally,
// dd/mm/yyyy strings pass through, and anything else is shown as-is. Missing
// or empty values render as the caller's placeholder: the entry screen wants
// "" and the classification screen wants "-".
func FormatDateDisplay(raw any, loc *time.Location, missing string) string {
	switch v := raw.(type) {
	case nil:
		return missing
	case float64:
		return serialDay(v, loc).Format("02/01/2006")
	case int:
		return serialDay(float64(v), loc).Format("02/01/2006")
	case int64:
		return serialDay(float64(v), loc).Format("02/01/2006")
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return missing
		}
		if isoDatePattern.MatchString(s) {
			return fmt.Sprintf("%s/%s/%s", s[8:10], s[5:7], s[:4])
		}
		return s
	default:
		return Text(raw)
	}
}
