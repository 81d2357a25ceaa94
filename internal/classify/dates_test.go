package classify

import (
	"testing"
	"time"
)

// The fixture zone matches where the dashboard actually runs; serial-number
// conversions depend on it.
var saoPaulo = time.FixedZone("-03", -3*60*60)

func TestParseAnyDateEncodingsAgree(t *testing.T) {
	want := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	inputs := []any{float64(45292), "2023-12-31", "31/12/2023"}
	for _, raw := range inputs {
		got, ok := ParseAnyDate(raw, saoPaulo)
		if !ok {
			t.Fatalf("ParseAnyDate(%v) unexpectedly failed", raw)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseAnyDate(%v) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseAnyDateRFC3339Fallback(t *testing.T) {
	got, ok := ParseAnyDate("2023-12-31T21:30:00-03:00", saoPaulo)
	if !ok {
		t.Fatal("expected RFC 3339 input to parse")
	}
	want := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseAnyDateRejectsGarbage(t *testing.T) {
	cases := []any{nil, "", "   ", "amanhã", "31/02/2023", "2023-02-31", true, []string{"x"}}
	for _, raw := range cases {
		if _, ok := ParseAnyDate(raw, saoPaulo); ok {
			t.Fatalf("ParseAnyDate(%v) should not parse", raw)
		}
	}
}

func TestFormatDateDisplay(t *testing.T) {
	cases := []struct {
		raw     any
		missing string
		want    string
	}{
		{float64(45292), "-", "31/12/2023"},
		{"2023-12-31", "-", "31/12/2023"},
		{"31/12/2023", "-", "31/12/2023"},
		{nil, "-", "-"},
		{nil, "", ""},
		{"", "-", "-"},
		{"dezembro", "-", "dezembro"},
	}
	for _, tc := range cases {
		if got := FormatDateDisplay(tc.raw, saoPaulo, tc.missing); got != tc.want {
			t.Fatalf("FormatDateDisplay(%v) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestAge(t *testing.T) {
	cases := []struct {
		today time.Time
		want  int
	}{
		{time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), 23},
		{time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), 24},
	}
	for _, tc := range cases {
		got, ok := Age("2000-03-15", tc.today, saoPaulo)
		if !ok {
			t.Fatalf("Age unexpectedly failed for today=%v", tc.today)
		}
		if got != tc.want {
			t.Fatalf("Age(today=%v) = %d, want %d", tc.today, got, tc.want)
		}
	}
}

func TestAgeMissingBirthDate(t *testing.T) {
	if _, ok := Age(nil, time.Now(), saoPaulo); ok {
		t.Fatal("expected no age for missing birth date")
	}
	if _, ok := Age("não informado", time.Now(), saoPaulo); ok {
		t.Fatal("expected no age for unparseable birth date")
	}
}
