// Package dashboard turns a refresh report into labelled metric tiles and
// renders them as a web page.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/web3-frozen/btc-dashboard/internal/compute"
	"github.com/web3-frozen/btc-dashboard/internal/monitor"
)

// Direction colours a tile's delta.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
	None Direction = "none"
)

const noChange = "No Change"

// Tile is one labelled metric.
type Tile struct {
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Delta     string    `json:"delta,omitempty"`
	Direction Direction `json:"direction"`
	Progress  *float64  `json:"progress,omitempty"`
	Caption   string    `json:"caption,omitempty"`
}

// Section groups tiles under a heading.
type Section struct {
	Title string `json:"title"`
	Tiles []Tile `json:"tiles"`
}

// Board is everything the page shows for one report.
type Board struct {
	Title       string    `json:"title"`
	ReportID    string    `json:"report_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Build maps a report to tiles. Every unavailable metric renders as N/A.
func Build(r *monitor.Report) Board {
	b := Board{Title: "Bitcoin Price & Metrics"}
	if r == nil {
		return b
	}
	b.ReportID = r.ID
	b.GeneratedAt = r.GeneratedAt

	in, d := r.Inputs, r.Derived
	b.Sections = []Section{
		{Title: "Market", Tiles: []Tile{priceTile(in.Price)}},
		{Title: "Blockchain Stats", Tiles: []Tile{
			blockHeightTile(in.BlockHeight),
			blockTimeTile(in.AvgBlockTime, d.BlockTimeVsTarget),
			difficultyTile(d.Difficulty),
		}},
		{Title: "Supply & Volume", Tiles: []Tile{
			circulatingTile(in.Price, d.ExpectedDailyIssuance, d.CirculatingShare),
			supplyGrowthTile(d.SupplyGrowthPerDay, d.IssuancePerBlock),
			holdingsTile(d.Holdings, d.HoldingsDelta, d.HoldingsDailyDelta, d.HoldingsShare),
			volumeTile(d.VolumeMA, d.VolumeMAChangePct),
		}},
	}
	return b
}

func unavailable(label string) Tile {
	return Tile{Label: label, Value: NA, Direction: None}
}

func direction(v float64) Direction {
	switch {
	case v > 0:
		return Up
	case v < 0:
		return Down
	}
	return Flat
}

func priceTile(p compute.Value[compute.PricePoint]) Tile {
	pp, ok := p.Get()
	if !ok {
		return unavailable("Price")
	}
	change := pp.Change24hPct.InexactFloat64()
	return Tile{
		Label:     "Price",
		Value:     "$" + addCommas(pp.Price.Round(0).StringFixed(0)),
		Delta:     formatSigned(change, 2) + "%",
		Direction: direction(change),
		Caption:   "Market cap $" + addCommas(pp.MarketCap.Round(0).StringFixed(0)),
	}
}

func blockHeightTile(h compute.Value[int64]) Tile {
	height, ok := h.Get()
	if !ok {
		return unavailable("Block Height")
	}
	return Tile{
		Label:     "Block Height",
		Value:     addCommas(decimal.NewFromInt(height).String()),
		Direction: None,
	}
}

func blockTimeTile(interval, vsTarget compute.Value[float64]) Tile {
	secs, ok := interval.Get()
	if !ok || !finite(secs) {
		return unavailable("Avg Block Time")
	}
	t := Tile{
		Label:     "Avg Block Time",
		Value:     formatFixed(secs, 2) + "s",
		Direction: None,
	}
	if diff, ok := vsTarget.Get(); ok {
		t.Delta = formatSigned(diff, 2) + "s vs target"
		t.Direction = direction(diff)
	}
	return t
}

func difficultyTile(dc compute.Value[compute.DifficultyChange]) Tile {
	c, ok := dc.Get()
	if !ok {
		return unavailable("Latest Difficulty")
	}
	return Tile{
		Label:     "Latest Difficulty",
		Value:     formatFixed(c.Terahash, 2) + " T",
		Delta:     formatSigned(c.ChangePercent, 2) + "%",
		Direction: direction(c.ChangePercent),
	}
}

func circulatingTile(p compute.Value[compute.PricePoint], daily, share compute.Value[float64]) Tile {
	pp, ok := p.Get()
	if !ok {
		return unavailable("Circulating Supply")
	}
	t := Tile{
		Label:     "Circulating Supply",
		Value:     addCommas(decimal.NewFromInt(pp.CirculatingSupply).String()),
		Direction: None,
	}
	if v, ok := daily.Get(); ok {
		t.Delta = formatSigned(v, 0) + " BTC/day expected"
		t.Direction = direction(v)
	}
	withShare(&t, share)
	return t
}

func supplyGrowthTile(growth, issuance compute.Value[float64]) Tile {
	g, ok := growth.Get()
	if !ok {
		return unavailable("Supply Growth (7d)")
	}
	t := Tile{
		Label:     "Supply Growth (7d)",
		Value:     formatFixed(g, 2) + " BTC/day",
		Direction: None,
	}
	if reward, ok := issuance.Get(); ok {
		t.Caption = decimal.NewFromFloat(reward).String() + " BTC per block"
	}
	return t
}

func holdingsTile(pair compute.HoldingsPair, delta, daily, share compute.Value[float64]) Tile {
	latest, ok := pair.Latest.Get()
	if !ok {
		return unavailable("Institutional Holdings")
	}
	t := Tile{
		Label:     "Institutional Holdings",
		Value:     formatInt(latest),
		Delta:     noChange,
		Direction: Flat,
	}
	prev, hasPrev := pair.Previous.Get()
	if d, ok := delta.Get(); ok && hasPrev && prev > 0 {
		t.Delta = formatSigned(d, 0) + " (7d)"
		if per, ok := daily.Get(); ok {
			t.Delta += ", " + formatSigned(per, 0) + "/day"
		}
		t.Direction = direction(d)
	}
	withShare(&t, share)
	return t
}

func volumeTile(ma compute.MovingAveragePair, pct compute.Value[float64]) Tile {
	latest, ok := ma.Latest.Get()
	if !ok {
		return unavailable("7d On-chain Volume MA")
	}
	t := Tile{
		Label:     "7d On-chain Volume MA",
		Value:     formatInt(latest),
		Delta:     noChange,
		Direction: Flat,
	}
	prev, hasPrev := ma.Previous.Get()
	if p, ok := pct.Get(); ok && hasPrev {
		d := latest - prev
		t.Delta = formatSigned(d, 0) + " (" + formatSigned(p, 2) + "%)"
		t.Direction = direction(d)
	}
	return t
}

func withShare(t *Tile, share compute.Value[float64]) {
	s, ok := share.Get()
	if !ok {
		return
	}
	progress := min(max(s, 0), 1)
	t.Progress = &progress
	t.Caption = formatPercent(s) + " of Terminal Supply"
}
