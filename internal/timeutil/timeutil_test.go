package timeutil

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"06:34:12", 6*3600 + 34*60 + 12, false},
		{"23:59:59", 23*3600 + 59*60 + 59, false},
		{"24:00:00", 0, true},
		{"6:34", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClockString(t *testing.T) {
	c, err := ParseClock("06:05:09")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if c.String() != "06:05:09" {
		t.Errorf("String() = %q, want %q", c.String(), "06:05:09")
	}
}

func TestRoundToHour(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"06:34:00", 6},
		{"06:46:00", 7},
		{"06:45:00", 6}, // exactly 45 minutes rounds down
		{"06:45:01", 7}, // one second past the boundary rounds up
		{"06:00:00", 6},
		{"00:10:00", 0},
		{"23:50:00", 0}, // wraps to hour 0, date unchanged
		{"23:45:00", 23},
	}

	for _, tt := range tests {
		c, err := ParseClock(tt.in)
		if err != nil {
			t.Fatalf("ParseClock(%q) failed: %v", tt.in, err)
		}
		if got := c.RoundToHour(); got != tt.want {
			t.Errorf("RoundToHour(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitTimestamp(t *testing.T) {
	ts := time.Date(2026, 8, 25, 21, 17, 42, 0, time.UTC)
	date, clock := SplitTimestamp(ts)
	if date != "2026-08-25" {
		t.Errorf("date = %q, want %q", date, "2026-08-25")
	}
	if clock.String() != "21:17:42" {
		t.Errorf("clock = %q, want %q", clock.String(), "21:17:42")
	}
}

func TestCombineDateClock(t *testing.T) {
	c, err := ParseClock("02:30:00")
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	got, err := CombineDateClock("2026-08-25", c)
	if err != nil {
		t.Fatalf("CombineDateClock failed: %v", err)
	}
	want := time.Date(2026, 8, 25, 2, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CombineDateClock = %v, want %v", got, want)
	}

	if _, err := CombineDateClock("08/25/2026", c); err == nil {
		t.Error("expected error for malformed date")
	}
}
