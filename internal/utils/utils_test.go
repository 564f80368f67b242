package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseTimestampChain(t *testing.T) {
	tests := []struct {
		raw       string
		wantOK    bool
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		{"2024-03-15T10:00:00Z", true, 2024, time.March, 15},
		{"2024-03-15T10:00:00.123456+00:00", true, 2024, time.March, 15},
		{"2024-03-15T10:00:00", true, 2024, time.March, 15},
		{"2024-03-15 10:00:00.5-03:00", true, 2024, time.March, 15},
		{"2024-03-15", true, 2024, time.March, 15},
		{"01/02/2024", true, 2024, time.February, 1},
		{"15/03/2024 08:30", true, 2024, time.March, 15},
		{"", false, 0, 0, 0},
		{"ontem", false, 0, 0, 0},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.raw)
		if ok != tt.wantOK {
			t.Fatalf("ParseTimestamp(%q) ok=%v, want %v", tt.raw, ok, tt.wantOK)
		}
		if !ok {
			continue
		}
		if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
			t.Fatalf("ParseTimestamp(%q) = %v", tt.raw, got)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	tests := map[string]string{
		"0":       "R$ 0,00",
		"50":      "R$ 50,00",
		"1234.5":  "R$ 1.234,50",
		"1000000": "R$ 1.000.000,00",
		"-10.005": "-R$ 10,01",
		"999.994": "R$ 999,99",
	}
	for in, want := range tests {
		if got := FormatBRL(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatBRL(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitListAndFirstNonEmpty(t *testing.T) {
	got := SplitList("a, b;;\n c ")
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("SplitList = %v", got)
	}
	if FirstNonEmpty("", "  ", "x") != "x" {
		t.Fatalf("FirstNonEmpty failed")
	}
}

func TestParseDateIsUTCMidnight(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("BRT", -3*60*60)
	defer func() { time.Local = prev }()

	got, err := ParseDate(" 2024-03-01 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ParseDate = %v", got)
	}
}
