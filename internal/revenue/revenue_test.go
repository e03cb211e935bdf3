package revenue_test

import (
	"math"
	"testing"

	"piksel-orders/internal/revenue"
)

func TestMonthlyDistributionSingleDay(t *testing.T) {
	dist := revenue.MonthlyDistribution("2025-06-15", "2025-06-15", 500)
	if len(dist) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(dist))
	}
	e := dist[0]
	if e.Days != 1 {
		t.Errorf("days = %d, want 1", e.Days)
	}
	if e.Amount != 500 {
		t.Errorf("amount = %v, want 500", e.Amount)
	}
	if e.Month != 6 || e.Year != 2025 || e.MonthName != "birželis" {
		t.Errorf("entry tagged %d/%d %q, want 6/2025 birželis", e.Month, e.Year, e.MonthName)
	}
}

func TestMonthlyDistributionYearBoundary(t *testing.T) {
	// 2024-12-20..2025-01-05 is 17 days: 12 in December, 5 in January.
	dist := revenue.MonthlyDistribution("2024-12-20", "2025-01-05", 160)
	if len(dist) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dist))
	}

	dec, jan := dist[0], dist[1]
	if dec.Year != 2024 || dec.Month != 12 || dec.Days != 12 || dec.MonthName != "gruodis" {
		t.Errorf("december entry = %+v", dec)
	}
	if jan.Year != 2025 || jan.Month != 1 || jan.Days != 5 || jan.MonthName != "sausis" {
		t.Errorf("january entry = %+v", jan)
	}

	wantDec := 160.0 * 12 / 17
	wantJan := 160.0 * 5 / 17
	if math.Abs(dec.Amount-wantDec) > 1e-9 {
		t.Errorf("december amount = %v, want %v", dec.Amount, wantDec)
	}
	if math.Abs(jan.Amount-wantJan) > 1e-9 {
		t.Errorf("january amount = %v, want %v", jan.Amount, wantJan)
	}
}

func TestMonthlyDistributionConservation(t *testing.T) {
	tests := []struct {
		from, to string
		price    float64
	}{
		{"2025-01-01", "2025-01-31", 1000},
		{"2025-01-15", "2025-04-10", 1234.56},
		{"2023-11-03", "2024-02-29", 99.99},
		{"2025-02-28", "2025-03-01", 7},
	}
	for _, tt := range tests {
		dist := revenue.MonthlyDistribution(tt.from, tt.to, tt.price)
		if len(dist) == 0 {
			t.Errorf("%s..%s: empty distribution", tt.from, tt.to)
			continue
		}

		var days int
		var sum float64
		for _, e := range dist {
			days += e.Days
			sum += e.Amount
		}
		if want := revenue.InclusiveDays(tt.from, tt.to); days != want {
			t.Errorf("%s..%s: days sum = %d, want %d", tt.from, tt.to, days, want)
		}
		if math.Abs(sum-tt.price) > 1e-9 {
			t.Errorf("%s..%s: amount sum = %v, want %v", tt.from, tt.to, sum, tt.price)
		}
	}
}

func TestMonthlyDistributionChronological(t *testing.T) {
	dist := revenue.MonthlyDistribution("2024-11-20", "2025-02-10", 300)
	want := []struct{ y, m int }{{2024, 11}, {2024, 12}, {2025, 1}, {2025, 2}}
	if len(dist) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(dist))
	}
	for i, w := range want {
		if dist[i].Year != w.y || dist[i].Month != w.m {
			t.Errorf("entry %d = %d/%d, want %d/%d", i, dist[i].Month, dist[i].Year, w.m, w.y)
		}
	}
}

func TestMonthlyDistributionDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		price    float64
	}{
		{"malformed from", "garbage", "2025-01-10", 100},
		{"malformed to", "2025-01-01", "10.01.2025", 100},
		{"zero price", "2025-01-01", "2025-01-10", 0},
		{"empty dates", "", "", 100},
		{"reversed range", "2025-02-01", "2025-01-01", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if dist := revenue.MonthlyDistribution(tt.from, tt.to, tt.price); len(dist) != 0 {
				t.Errorf("expected empty distribution, got %d entries", len(dist))
			}
		})
	}
}

func TestMonthlyDistributionIgnoresTimeComponent(t *testing.T) {
	dist := revenue.MonthlyDistribution("2025-03-01 00:00:00", "2025-03-10 12:30:00", 100)
	if len(dist) != 1 || dist[0].Days != 10 {
		t.Fatalf("expected one 10-day entry, got %+v", dist)
	}
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2025-01-01", "2025-01-01", 1},
		{"2024-12-20", "2025-01-05", 17},
		{"2024-02-01", "2024-02-29", 29}, // leap year
		{"bad", "2025-01-01", 0},
	}
	for _, tt := range tests {
		if got := revenue.InclusiveDays(tt.from, tt.to); got != tt.want {
			t.Errorf("InclusiveDays(%q, %q) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}
