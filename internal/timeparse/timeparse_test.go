package timeparse

import (
	"testing"
	"time"
)

func TestParse_NowAndEmpty(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, input := range []string{"", "now", "  now  "} {
		got, err := Parse(input, now)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", input, err)
			continue
		}
		if !got.Equal(now) {
			t.Errorf("Parse(%q) = %v, want %v", input, got, now)
		}
	}
}

func TestParse_Epoch(t *testing.T) {
	now := time.Now()
	got, err := Parse("1700000000", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Unix() != 1700000000 {
		t.Errorf("epoch = %d, want 1700000000", got.Unix())
	}
}

func TestParse_Offsets(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"+30m", 30 * time.Minute},
		{"30m", 30 * time.Minute},
		{"+45s", 45 * time.Second},
		{"2h", 2 * time.Hour},
		{"+1d", 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"+6mo", 6 * 30 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
		{"+2 hours", 2 * time.Hour},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input, now)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if want := now.Add(tt.want); !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, want)
		}
	}
}

func TestParse_Absolute(t *testing.T) {
	now := time.Now()

	got, err := Parse("2030-01-02T15:04:05Z", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2030, 1, 2, 15, 4, 5, 0, time.UTC)) {
		t.Errorf("RFC3339 parse = %v", got)
	}

	got, err = Parse("2030-01-02 15:04:05", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2030, 1, 2, 15, 4, 5, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("wall clock parse = %v, want %v", got, want)
	}

	got, err = Parse("2030-01-02", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2030 || got.Month() != 1 || got.Day() != 2 {
		t.Errorf("date parse = %v", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	now := time.Now()
	inputs := []string{
		"soon",
		"5 fortnights",
		"tomorrow-ish",
		"h30",
		// Digits that overflow int64 must error, not schedule for 1970.
		"99999999999999999999",
	}
	for _, input := range inputs {
		if _, err := Parse(input, now); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}
