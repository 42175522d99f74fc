package periods

import (
	"testing"
	"time"
)

func TestContainsInclusiveBounds(t *testing.T) {
	p := Period{
		StartsAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	cases := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 1, 31, 18, 30, 0, 0, time.UTC), true},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := p.Contains(tc.date); got != tc.want {
			t.Fatalf("Contains(%s): expected %v, got %v", tc.date, tc.want, got)
		}
	}
}

func TestMonthName(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "Enero 2025"},
		{time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), "Septiembre 2025"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "Diciembre 2024"},
	}
	for _, tc := range cases {
		if got := MonthName(tc.date); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC))
	if !start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %s", start)
	}
	if !end.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %s", end)
	}

	start, end = MonthBounds(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	if end.Day() != 29 {
		t.Fatalf("leap February should end on the 29th, got %d", end.Day())
	}
	if start.Month() != time.February {
		t.Fatalf("unexpected start month: %s", start.Month())
	}
}
