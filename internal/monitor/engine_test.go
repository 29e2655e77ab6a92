package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

type stubSource[T any] struct {
	name  string
	val   T
	err   error
	calls int
}

func (s *stubSource[T]) Name() string { return s.name }

func (s *stubSource[T]) Fetch(context.Context) (T, error) {
	s.calls++
	return s.val, s.err
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var day0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func volumeSeries(n int, v float64) compute.VolumeSeries {
	s := make(compute.VolumeSeries, n)
	for i := range s {
		s[i] = compute.Point{Time: day0.AddDate(0, 0, i), Value: v}
	}
	return s
}

func fixedInputs() Inputs {
	return Inputs{
		Price: compute.Of(compute.PricePoint{
			Price:             decimal.RequireFromString("97000.5"),
			Change24hPct:      decimal.RequireFromString("2.5"),
			MarketCap:         decimal.RequireFromString("1920000000000"),
			CirculatingSupply: 19_800_000,
		}),
		BlockHeight:          compute.Of[int64](900_000),
		BlockHeight7dAgo:     compute.Of[int64](898_992),
		AvgBlockTime:         compute.Of(600.0),
		DifficultyAdjustment: compute.Of(compute.DifficultyAdjustment{Difficulty: 1e14, ChangeFactor: 1.05}),
		OnchainVolume:        compute.Of(volumeSeries(30, 5000)),
		InstitutionalHoldings: compute.Of(compute.HoldingsSeries{
			{Time: day0, Value: 100},
			{Time: day0.AddDate(0, 0, 7), Value: 150},
			{Time: day0.AddDate(0, 0, 14), Value: 200},
		}),
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	in := fixedInputs()
	if a, b := Evaluate(in), Evaluate(in); a != b {
		t.Errorf("Evaluate differs across calls:\n%+v\n%+v", a, b)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEvaluateFullInputs(t *testing.T) {
	d := Evaluate(fixedInputs())

	if growth, ok := d.SupplyGrowthPerDay.Get(); !ok || !near(growth, 450) {
		t.Errorf("SupplyGrowthPerDay = %v, %v; want 450, true", growth, ok)
	}
	if issuance, _ := d.IssuancePerBlock.Get(); issuance != 3.125 {
		t.Errorf("IssuancePerBlock = %v, want 3.125", issuance)
	}
	if latest, _ := d.VolumeMA.Latest.Get(); !near(latest, 5000) {
		t.Errorf("VolumeMA.Latest = %v, want 5000", latest)
	}
	if pct, ok := d.VolumeMAChangePct.Get(); !ok || !near(pct, 0) {
		t.Errorf("VolumeMAChangePct = %v, %v; want 0, true", pct, ok)
	}
	if delta, _ := d.HoldingsDelta.Get(); delta != 50 {
		t.Errorf("HoldingsDelta = %v, want 50", delta)
	}

	diff, ok := d.Difficulty.Get()
	if !ok {
		t.Fatal("Difficulty unavailable")
	}
	if !near(diff.Terahash, 100) || !near(diff.ChangePercent, 5) {
		t.Errorf("Difficulty = %+v, want 100 TH and +5%%", diff)
	}

	share, _ := d.CirculatingShare.Get()
	if math.Abs(share-19_800_000.0/21_000_000) > 1e-12 {
		t.Errorf("CirculatingShare = %v", share)
	}
}

func TestEvaluateAllUnavailable(t *testing.T) {
	d := Evaluate(Inputs{})
	for name, v := range d.gauges() {
		if v.Available() {
			t.Errorf("%s should be unavailable", name)
		}
	}
	if d.CirculatingShare.Available() || d.HoldingsShare.Available() {
		t.Error("supply shares should be unavailable")
	}
}

func TestEvaluateTinyIntervalDoesNotOverflow(t *testing.T) {
	in := fixedInputs()
	in.AvgBlockTime = compute.Of(1e-310)
	d := Evaluate(in)
	if d.ExpectedDailyIssuance.Available() {
		t.Error("ExpectedDailyIssuance should be unavailable for an overflowing interval")
	}
	if !d.IssuancePerBlock.Available() {
		t.Error("IssuancePerBlock should not depend on the interval")
	}
}

func TestRefreshDegradesPerSource(t *testing.T) {
	height := &stubSource[int64]{name: "block_height", val: 900_000}
	ago := &stubSource[int64]{name: "block_height_7d_ago", err: errors.New("timeout")}
	interval := &stubSource[float64]{name: "avg_block_time", val: 580}

	e := NewEngine(Sources{BlockHeight: height, BlockHeight7dAgo: ago, AvgBlockTime: interval}, quietLogger(), time.Minute)
	if e.Latest() != nil {
		t.Fatal("Latest before first refresh should be nil")
	}

	r := e.Refresh(context.Background())
	if r == nil {
		t.Fatal("Refresh returned nil")
	}
	if e.Latest() != r {
		t.Error("Latest does not return the refreshed report")
	}
	if r.ID == "" {
		t.Error("report ID is empty")
	}

	if !r.Inputs.BlockHeight.Available() {
		t.Error("BlockHeight should be available")
	}
	if r.Inputs.BlockHeight7dAgo.Available() {
		t.Error("BlockHeight7dAgo should be unavailable after a fetch error")
	}
	if r.Inputs.Price.Available() {
		t.Error("Price should be unavailable without a source")
	}
	if r.Derived.SupplyGrowthPerDay.Available() {
		t.Error("SupplyGrowthPerDay should be unavailable")
	}
	if !r.Derived.IssuancePerBlock.Available() {
		t.Error("IssuancePerBlock should be available")
	}
	if vs, ok := r.Derived.BlockTimeVsTarget.Get(); !ok || !near(vs, -20) {
		t.Errorf("BlockTimeVsTarget = %v, %v; want -20, true", vs, ok)
	}
	if height.calls != 1 {
		t.Errorf("height fetched %d times, want 1", height.calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	height := &stubSource[int64]{name: "block_height", val: 1}
	e := NewEngine(Sources{BlockHeight: height}, quietLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for e.Latest() == nil {
		if time.Now().After(deadline) {
			t.Fatal("no report after initial refresh")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSourceNames(t *testing.T) {
	e := NewEngine(Sources{
		Price:       &stubSource[compute.PricePoint]{name: "price"},
		BlockHeight: &stubSource[int64]{name: "block_height"},
	}, quietLogger(), 0)
	want := []string{"price", "block_height"}
	if got := e.SourceNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("SourceNames = %v, want %v", got, want)
	}
}

func TestClampInterval(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, DefaultRefreshInterval},
		{time.Second, MinRefreshInterval},
		{5 * time.Minute, 5 * time.Minute},
		{24 * time.Hour, MaxRefreshInterval},
	}
	for _, tt := range tests {
		if got := ClampInterval(tt.in); got != tt.want {
			t.Errorf("ClampInterval(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
