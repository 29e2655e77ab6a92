package compute

import "time"

// HoldingsLookback is how far back the holdings comparison reaches.
const HoldingsLookback = 7 * 24 * time.Hour

// HoldingsPair is the latest holdings total and the total closest to one
// lookback period earlier.
type HoldingsPair struct {
	Latest   Value[float64] `json:"latest"`
	Previous Value[float64] `json:"previous"`
}

// Delta is Latest minus Previous.
func (p HoldingsPair) Delta() Value[float64] {
	l, ok := p.Latest.Get()
	if !ok {
		return Unavailable[float64]()
	}
	prev, ok := p.Previous.Get()
	if !ok {
		return Unavailable[float64]()
	}
	return Finite(l - prev)
}

// DailyAverageDelta spreads Delta over the seven days of the lookback.
func (p HoldingsPair) DailyAverageDelta() Value[float64] {
	return MapFinite(p.Delta(), func(d float64) float64 { return d / weekDays })
}

// HoldingsDelta picks the last entry of series as latest and, as previous,
// the entry whose timestamp is nearest to latest minus seven days. Ties go
// to the earliest entry. A series with fewer than two entries has no
// previous total.
func HoldingsDelta(series HoldingsSeries) HoldingsPair {
	if len(series) == 0 {
		return HoldingsPair{}
	}
	latest := series[len(series)-1]
	out := HoldingsPair{Latest: Finite(latest.Value)}
	if len(series) < 2 {
		return out
	}

	target := latest.Time.Add(-HoldingsLookback)
	best := 0
	bestDiff := absDuration(series[0].Time.Sub(target))
	for i := 1; i < len(series); i++ {
		if d := absDuration(series[i].Time.Sub(target)); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	out.Previous = Finite(series[best].Value)
	return out
}

// InstitutionalHoldingsDelta applies HoldingsDelta to an optional series.
func InstitutionalHoldingsDelta(series Value[HoldingsSeries]) HoldingsPair {
	s, ok := series.Get()
	if !ok {
		return HoldingsPair{}
	}
	return HoldingsDelta(s)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
