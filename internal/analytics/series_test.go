package analytics

import (
	"math/rand"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
}

func TestCashflowSummary(t *testing.T) {
	g := NewModelGateway(rand.New(rand.NewSource(1)), fixedNow)

	points := g.CashflowSummary()
	if len(points) != 5 {
		t.Fatalf("cashflow has %d points, want 5", len(points))
	}
	for i, p := range points {
		if p.Month == "" {
			t.Errorf("point %d has no month label", i)
		}
		if p.InFlow < 8 || p.OutFlow < 6 {
			t.Errorf("point %d below baseline: %+v", i, p)
		}
	}
}

func TestBalanceForecast(t *testing.T) {
	g := NewModelGateway(rand.New(rand.NewSource(1)), fixedNow)

	projection := g.BalanceForecast()
	if len(projection) != 4 {
		t.Fatalf("projection has %d quarters, want 4", len(projection))
	}
	for i := 1; i < len(projection); i++ {
		if projection[i].Base <= projection[i-1].Base {
			t.Errorf("base trajectory not increasing at %d: %+v", i, projection)
		}
		if projection[i].Stress <= projection[i-1].Stress {
			t.Errorf("stress trajectory not increasing at %d: %+v", i, projection)
		}
	}
}

func TestActivityHeatmap(t *testing.T) {
	g := NewModelGateway(rand.New(rand.NewSource(1)), fixedNow)

	heatmap := g.ActivityHeatmap()
	if len(heatmap) != 7 {
		t.Fatalf("heatmap has %d days, want 7", len(heatmap))
	}
	if heatmap[0].Day != "Mon" || heatmap[6].Day != "Sun" {
		t.Errorf("unexpected weekday order: %+v", heatmap)
	}
	for _, d := range heatmap {
		if d.Inflow < 5 || d.Inflow > 16 || d.Outflow < 3 || d.Outflow > 11 {
			t.Errorf("day %s out of range: %+v", d.Day, d)
		}
	}
}

func TestControlDates(t *testing.T) {
	g := NewModelGateway(rand.New(rand.NewSource(1)), fixedNow)

	dates := g.ControlDates()
	if len(dates) != 3 {
		t.Fatalf("got %d control dates, want 3", len(dates))
	}
	want := []string{"04.10.2025", "07.10.2025", "10.10.2025"}
	for i, d := range dates {
		if d.Date != want[i] {
			t.Errorf("date %d = %s, want %s", i, d.Date, want[i])
		}
		if d.Owner == "" || d.Title == "" {
			t.Errorf("date %d missing owner or title: %+v", i, d)
		}
	}
}

func TestSeriesDeterministicForSameSeed(t *testing.T) {
	a := NewModelGateway(rand.New(rand.NewSource(7)), fixedNow).CashflowSummary()
	b := NewModelGateway(rand.New(rand.NewSource(7)), fixedNow).CashflowSummary()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different series: %+v vs %+v", a[i], b[i])
		}
	}
}
