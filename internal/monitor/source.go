package monitor

import (
	"context"

	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

// Source fetches one upstream reading. To add a data source, implement
// this interface and wire it into Sources.
type Source[T any] interface {
	// Name returns a unique identifier for this source (e.g., "block_height").
	Name() string

	// Fetch returns the current reading, possibly served from cache.
	Fetch(ctx context.Context) (T, error)
}

// Sources is the fixed set of inputs read on every refresh cycle. A nil
// source is treated as permanently unavailable.
type Sources struct {
	Price                 Source[compute.PricePoint]
	BlockHeight           Source[int64]
	BlockHeight7dAgo      Source[int64]
	AvgBlockTime          Source[float64]
	DifficultyAdjustment  Source[compute.DifficultyAdjustment]
	OnchainVolume         Source[compute.VolumeSeries]
	InstitutionalHoldings Source[compute.HoldingsSeries]
}

// Inputs is one snapshot of every upstream reading. Each field is either a
// value or Unavailable; fetch errors never reach this struct.
type Inputs struct {
	Price                 compute.Value[compute.PricePoint]           `json:"price_data"`
	BlockHeight           compute.Value[int64]                        `json:"block_height"`
	BlockHeight7dAgo      compute.Value[int64]                        `json:"block_height_7d_ago"`
	AvgBlockTime          compute.Value[float64]                      `json:"avg_block_time"`
	DifficultyAdjustment  compute.Value[compute.DifficultyAdjustment] `json:"difficulty_adjustment"`
	OnchainVolume         compute.Value[compute.VolumeSeries]         `json:"-"`
	InstitutionalHoldings compute.Value[compute.HoldingsSeries]       `json:"-"`
}
