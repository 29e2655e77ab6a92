package monitor

import (
	"time"

	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

// Derived holds every metric computed from one Inputs snapshot.
type Derived struct {
	VolumeMA              compute.MovingAveragePair               `json:"volume_ma"`
	VolumeMAChangePct     compute.Value[float64]                  `json:"volume_ma_change_pct"`
	IssuancePerBlock      compute.Value[float64]                  `json:"issuance_per_block"`
	SupplyGrowthPerDay    compute.Value[float64]                  `json:"supply_growth_per_day"`
	ExpectedDailyIssuance compute.Value[float64]                  `json:"expected_daily_issuance"`
	BlockTimeVsTarget     compute.Value[float64]                  `json:"block_time_vs_target"`
	CirculatingShare      compute.Value[float64]                  `json:"circulating_share"`
	Holdings              compute.HoldingsPair                    `json:"holdings"`
	HoldingsDelta         compute.Value[float64]                  `json:"holdings_delta"`
	HoldingsDailyDelta    compute.Value[float64]                  `json:"holdings_daily_delta"`
	HoldingsShare         compute.Value[float64]                  `json:"holdings_share"`
	Difficulty            compute.Value[compute.DifficultyChange] `json:"difficulty"`
}

// Report is the output of one refresh cycle.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Inputs      Inputs    `json:"inputs"`
	Derived     Derived   `json:"derived"`
}

// Evaluate computes every derived metric from in. It is pure: equal inputs
// give equal outputs and nothing outlives the call.
func Evaluate(in Inputs) Derived {
	volumeMA := compute.VolumeMovingAverage(in.OnchainVolume)
	holdings := compute.InstitutionalHoldingsDelta(in.InstitutionalHoldings)
	supply := compute.Map(in.Price, func(p compute.PricePoint) float64 {
		return float64(p.CirculatingSupply)
	})

	return Derived{
		VolumeMA:              volumeMA,
		VolumeMAChangePct:     compute.PercentChange(volumeMA.Latest, volumeMA.Previous),
		IssuancePerBlock:      compute.IssuanceRate(in.BlockHeight),
		SupplyGrowthPerDay:    compute.SupplyGrowth(in.BlockHeight, in.BlockHeight7dAgo),
		ExpectedDailyIssuance: compute.ExpectedDailyIssuance(in.AvgBlockTime, in.BlockHeight),
		BlockTimeVsTarget:     compute.BlockTimeVsTarget(in.AvgBlockTime),
		CirculatingShare:      compute.TerminalSupplyShare(supply),
		Holdings:              holdings,
		HoldingsDelta:         holdings.Delta(),
		HoldingsDailyDelta:    holdings.DailyAverageDelta(),
		HoldingsShare:         compute.TerminalSupplyShare(holdings.Latest),
		Difficulty:            compute.DifficultyDelta(in.DifficultyAdjustment),
	}
}

// gauges lists the scalar metrics exported to Prometheus.
func (d Derived) gauges() map[string]compute.Value[float64] {
	diff := d.Difficulty
	return map[string]compute.Value[float64]{
		"volume_ma_latest":        d.VolumeMA.Latest,
		"volume_ma_previous":      d.VolumeMA.Previous,
		"issuance_per_block":      d.IssuancePerBlock,
		"supply_growth_per_day":   d.SupplyGrowthPerDay,
		"expected_daily_issuance": d.ExpectedDailyIssuance,
		"block_time_vs_target":    d.BlockTimeVsTarget,
		"holdings_latest":         d.Holdings.Latest,
		"holdings_delta":          d.HoldingsDelta,
		"difficulty_terahash":     compute.Map(diff, func(c compute.DifficultyChange) float64 { return c.Terahash }),
		"difficulty_change_pct":   compute.Map(diff, func(c compute.DifficultyChange) float64 { return c.ChangePercent }),
	}
}
