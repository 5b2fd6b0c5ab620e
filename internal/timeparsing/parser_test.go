package timeparsing

import (
	"testing"
	"time"
)

func TestParseCompactDuration(t *testing.T) {
	// Fixed reference time for deterministic tests
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "+6h adds 6 hours", input: "+6h", want: time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)},
		{name: "+1d adds 1 day", input: "+1d", want: time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)},
		{name: "+2w adds 2 weeks", input: "+2w", want: time.Date(2025, 6, 29, 12, 0, 0, 0, time.UTC)},
		{name: "+3m adds 3 months", input: "+3m", want: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
		{name: "+1y adds 1 year", input: "+1y", want: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)},
		{name: "-1d subtracts 1 day", input: "-1d", want: time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
		{name: "-6h subtracts 6 hours", input: "-6h", want: time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)},
		{name: "no sign means positive", input: "2w", want: time.Date(2025, 6, 29, 12, 0, 0, 0, time.UTC)},
		{name: "missing unit rejected", input: "+6", wantErr: true},
		{name: "bad unit rejected", input: "+6q", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompactDuration(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCompactDuration(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCompactDuration(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCompactDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLayers(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("rfc3339 passes through", func(t *testing.T) {
		got, err := Parse("2025-01-02T03:04:05Z", now)
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("date only", func(t *testing.T) {
		got, err := Parse("2025-03-09", now)
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("compact duration wins before natural language", func(t *testing.T) {
		got, err := Parse("-1d", now)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(now.AddDate(0, 0, -1)) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("natural language", func(t *testing.T) {
		got, err := Parse("yesterday", now)
		if err != nil {
			t.Fatal(err)
		}
		if got.Day() != 14 {
			t.Errorf("yesterday = %v, want day 14", got)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, err := Parse("definitely not a time", now); err == nil {
			t.Error("expected error")
		}
	})
}

func TestIsCompactDuration(t *testing.T) {
	for _, ok := range []string{"+6h", "-1d", "2w", "10y"} {
		if !IsCompactDuration(ok) {
			t.Errorf("IsCompactDuration(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "6", "h6", "yesterday", "+1x"} {
		if IsCompactDuration(bad) {
			t.Errorf("IsCompactDuration(%q) = true, want false", bad)
		}
	}
}
