package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDecimal(t *testing.T) {
	cases := map[string]string{
		"20,000":       "20000",
		"USD 1,250.50": "1250.50",
		"SLSH -20,000": "-20000",
		"Sh 20000":     "20000",
		"  42.5 ":      "42.5",
		"-0.01":        "-0.01",
	}
	for in, want := range cases {
		got, err := ParseDecimal(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestParseDecimal_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "USD"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestMoneyRound(t *testing.T) {
	if got := MoneyRound(decimal.RequireFromString("1.005"), 2); !got.Equal(decimal.RequireFromString("1.01")) {
		t.Fatalf("expected 1.01, got %s", got)
	}
	// non-positive precision falls back to 2
	if got := MoneyRound(decimal.RequireFromString("1.005"), 0); !got.Equal(decimal.RequireFromString("1.01")) {
		t.Fatalf("expected fallback precision 2, got %s", got)
	}
	// half away from zero at the cut digit
	if got := MoneyRound(decimal.RequireFromString("1.2345"), 3); !got.Equal(decimal.RequireFromString("1.235")) {
		t.Fatalf("expected 1.235 at 3 places, got %s", got)
	}
	if got := MoneyRound(decimal.RequireFromString("-1.2345"), 3); !got.Equal(decimal.RequireFromString("-1.235")) {
		t.Fatalf("expected -1.235 at 3 places, got %s", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		year  int
		month int
		want  int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, c := range cases {
		if got := LastDayOfMonth(c.year, time.Month(c.month)); got != c.want {
			t.Fatalf("%d-%02d: expected %d, got %d", c.year, c.month, c.want, got)
		}
	}
}
