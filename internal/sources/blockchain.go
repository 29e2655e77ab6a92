package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

const (
	blockCountPath  = "/q/getblockcount"
	intervalPath    = "/q/interval"
	volumeChartPath = "/charts/estimated-transaction-volume?format=json"
)

// BlockHeight fetches the current chain height from blockchain.info.
type BlockHeight struct {
	client   *Client
	endpoint Endpoint
}

func NewBlockHeight(client *Client, ep Endpoint) *BlockHeight {
	return &BlockHeight{client: client, endpoint: ep}
}

func (b *BlockHeight) Name() string { return NameBlockHeight }

func (b *BlockHeight) Fetch(ctx context.Context) (int64, error) {
	body, err := b.client.get(ctx, b.Name(), b.endpoint.TTL, b.endpoint.BaseURL+blockCountPath, nil)
	if err != nil {
		return 0, fmt.Errorf("blockchain.info block count: %w", err)
	}
	return parseHeight(strings.TrimSpace(string(body)))
}

func parseHeight(s string) (int64, error) {
	h, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse block height: %w", err)
	}
	if h < 0 {
		return 0, fmt.Errorf("negative block height %d", h)
	}
	return h, nil
}

// BlockInterval fetches the network's average seconds between blocks.
type BlockInterval struct {
	client   *Client
	endpoint Endpoint
}

func NewBlockInterval(client *Client, ep Endpoint) *BlockInterval {
	return &BlockInterval{client: client, endpoint: ep}
}

func (b *BlockInterval) Name() string { return NameBlockInterval }

func (b *BlockInterval) Fetch(ctx context.Context) (float64, error) {
	body, err := b.client.get(ctx, b.Name(), b.endpoint.TTL, b.endpoint.BaseURL+intervalPath, nil)
	if err != nil {
		return 0, fmt.Errorf("blockchain.info interval: %w", err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse block interval: %w", err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return 0, fmt.Errorf("invalid block interval %v", secs)
	}
	return secs, nil
}

type chartResponse struct {
	Values []struct {
		X int64    `json:"x"`
		Y *float64 `json:"y"`
	} `json:"values"`
}

// OnchainVolume fetches the estimated daily transaction volume chart.
type OnchainVolume struct {
	client   *Client
	endpoint Endpoint
}

func NewOnchainVolume(client *Client, ep Endpoint) *OnchainVolume {
	return &OnchainVolume{client: client, endpoint: ep}
}

func (o *OnchainVolume) Name() string { return NameOnchainVolume }

func (o *OnchainVolume) Fetch(ctx context.Context) (compute.VolumeSeries, error) {
	body, err := o.client.get(ctx, o.Name(), o.endpoint.TTL, o.endpoint.BaseURL+volumeChartPath, nil)
	if err != nil {
		return nil, fmt.Errorf("blockchain.info volume chart: %w", err)
	}
	return parseVolumeChart(body)
}

func parseVolumeChart(body []byte) (compute.VolumeSeries, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode volume chart: %w", err)
	}

	// Points with a null volume are dropped rather than averaged in as zero.
	series := make(compute.VolumeSeries, 0, len(chart.Values))
	for _, v := range chart.Values {
		if v.Y == nil {
			continue
		}
		series = append(series, compute.Point{Time: time.Unix(v.X, 0).UTC(), Value: *v.Y})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no volume chart values")
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}
