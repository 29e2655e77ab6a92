package compute

import (
	"math"
	"testing"
	"time"
)

func holdings(entries ...Point) HoldingsSeries { return HoldingsSeries(entries) }

func at(days int, v float64) Point {
	return Point{Time: day0.AddDate(0, 0, days), Value: v}
}

func TestHoldingsDeltaExactWeekBack(t *testing.T) {
	got := HoldingsDelta(holdings(at(0, 100), at(7, 150), at(14, 200)))

	latest, ok := got.Latest.Get()
	if !ok || latest != 200 {
		t.Errorf("Latest = %v, %v; want 200, true", latest, ok)
	}
	prev, ok := got.Previous.Get()
	if !ok || prev != 150 {
		t.Errorf("Previous = %v, %v; want 150, true", prev, ok)
	}
	if delta, _ := got.Delta().Get(); delta != 50 {
		t.Errorf("Delta = %v, want 50", delta)
	}
	if daily, _ := got.DailyAverageDelta().Get(); math.Abs(daily-50.0/7) > 1e-9 {
		t.Errorf("DailyAverageDelta = %v, want %v", daily, 50.0/7)
	}
}

func TestHoldingsDeltaSingleEntry(t *testing.T) {
	got := HoldingsDelta(holdings(at(3, 42)))

	if latest, ok := got.Latest.Get(); !ok || latest != 42 {
		t.Errorf("Latest = %v, %v; want 42, true", latest, ok)
	}
	if got.Previous.Available() {
		t.Error("Previous should be unavailable")
	}
	if got.Delta().Available() {
		t.Error("Delta should be unavailable")
	}
}

func TestHoldingsDeltaEmpty(t *testing.T) {
	if got := HoldingsDelta(nil); got != (HoldingsPair{}) {
		t.Errorf("HoldingsDelta(nil) = %+v, want zero pair", got)
	}
}

func TestHoldingsDeltaPreviousSelection(t *testing.T) {
	tests := []struct {
		name   string
		series HoldingsSeries
		want   float64
	}{
		// target is day 10; day 9 is one day away, day 12 is two
		{"closest entry", holdings(at(0, 1), at(9, 2), at(12, 3), at(17, 4)), 2},
		// target is day 7; day 6 and day 8 are equidistant
		{"tie keeps earliest", holdings(at(6, 10), at(8, 20), at(14, 30)), 10},
		{"sub-day timestamps", holdings(
			Point{Time: day0.Add(-2 * time.Hour), Value: 1},
			Point{Time: day0.Add(3 * time.Hour), Value: 2},
			Point{Time: day0.Add(HoldingsLookback), Value: 3},
		), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, ok := HoldingsDelta(tt.series).Previous.Get()
			if !ok || prev != tt.want {
				t.Errorf("Previous = %v, %v; want %v, true", prev, ok, tt.want)
			}
		})
	}
}

func TestHoldingsDeltaNonFiniteTotal(t *testing.T) {
	got := HoldingsDelta(holdings(at(0, 100), at(7, math.Inf(1))))
	if got.Latest.Available() {
		t.Error("infinite latest total should be unavailable")
	}
	if got.Delta().Available() {
		t.Error("Delta should be unavailable when latest is not finite")
	}
}

func TestInstitutionalHoldingsDeltaUnavailable(t *testing.T) {
	if got := InstitutionalHoldingsDelta(Unavailable[HoldingsSeries]()); got != (HoldingsPair{}) {
		t.Errorf("got %+v, want zero pair", got)
	}
}
