package compute

import (
	"time"

	"github.com/shopspring/decimal"
)

// TerminalSupply is the maximum number of BTC that will ever be issued.
const TerminalSupply = 21_000_000

// PricePoint is the current market reading for BTC.
type PricePoint struct {
	Price             decimal.Decimal `json:"price"`
	Change24hPct      decimal.Decimal `json:"change_24h_pct"`
	MarketCap         decimal.Decimal `json:"market_cap"`
	CirculatingSupply int64           `json:"circulating_supply"`
}

// DifficultyAdjustment is one recorded retarget. ChangeFactor is a ratio,
// 1.0 meaning unchanged.
type DifficultyAdjustment struct {
	Time         time.Time `json:"time"`
	Height       int64     `json:"height"`
	Difficulty   float64   `json:"difficulty"`
	ChangeFactor float64   `json:"change_factor"`
}

// Point is one observation of a chronological series.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// VolumeSeries holds daily on-chain transaction volume, oldest first.
type VolumeSeries []Point

// HoldingsSeries holds aggregate institutional holdings, oldest first.
type HoldingsSeries []Point
