package compute

import "math"

const (
	// HalvingInterval is the number of blocks between subsidy halvings.
	HalvingInterval = 210_000

	// EpochReward is the per-block subsidy of the fifth epoch (heights
	// 840,000 to 1,049,999). Other epochs are derived from it.
	EpochReward = 3.125

	epochOffset = 4

	secondsPerDay = 86_400

	// TargetBlockTime is the protocol's intended block interval in seconds.
	TargetBlockTime = 600.0

	weekDays = 7
)

// IssuanceRate returns the BTC issued per block at height. An unavailable
// or negative height yields Unavailable rather than a zero reward.
func IssuanceRate(height Value[int64]) Value[float64] {
	h, ok := height.Get()
	if !ok || h < 0 {
		return Unavailable[float64]()
	}
	halvings := int(h/HalvingInterval) - epochOffset
	return Of(math.Ldexp(EpochReward, -halvings))
}

// SupplyGrowth estimates BTC added to circulating supply per day over the
// trailing week. It is Unavailable when either height is missing or when
// the prior height is above the current one.
func SupplyGrowth(current, weekAgo Value[int64]) Value[float64] {
	cur, ok := current.Get()
	if !ok {
		return Unavailable[float64]()
	}
	prior, ok := weekAgo.Get()
	if !ok {
		return Unavailable[float64]()
	}
	mined := cur - prior
	if mined < 0 {
		return Unavailable[float64]()
	}
	reward, ok := IssuanceRate(current).Get()
	if !ok {
		return Unavailable[float64]()
	}
	return Finite(float64(mined) * reward / weekDays)
}

// ExpectedDailyIssuance projects daily issuance from the average block
// interval in seconds and the subsidy at height. An interval small enough
// to overflow the projection is Unavailable.
func ExpectedDailyIssuance(interval Value[float64], height Value[int64]) Value[float64] {
	secs, ok := interval.Get()
	if !ok || secs <= 0 {
		return Unavailable[float64]()
	}
	reward, ok := IssuanceRate(height).Get()
	if !ok {
		return Unavailable[float64]()
	}
	return Finite(secondsPerDay / secs * reward)
}

// BlockTimeVsTarget is the average interval minus the 600 second target.
func BlockTimeVsTarget(interval Value[float64]) Value[float64] {
	return MapFinite(interval, func(s float64) float64 { return s - TargetBlockTime })
}

// TerminalSupplyShare is amount as a fraction of the 21M terminal supply.
func TerminalSupplyShare(amount Value[float64]) Value[float64] {
	return MapFinite(amount, func(a float64) float64 { return a / TerminalSupply })
}

// PercentChange is the relative change from previous to latest in percent.
// A non-positive previous value has no meaningful percentage.
func PercentChange(latest, previous Value[float64]) Value[float64] {
	l, ok := latest.Get()
	if !ok {
		return Unavailable[float64]()
	}
	p, ok := previous.Get()
	if !ok || p <= 0 {
		return Unavailable[float64]()
	}
	return Finite((l - p) / p * 100)
}
