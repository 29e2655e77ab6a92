package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

const (
	blockAtTimestampPath  = "/mining/blocks/timestamp/%d"
	difficultyHistoryPath = "/mining/difficulty-adjustments/1m"
	heightLookback        = 7 * 24 * time.Hour
)

// BlockHeightAgo fetches the height of the block mined closest to seven
// days before now, using mempool.space.
type BlockHeightAgo struct {
	client   *Client
	endpoint Endpoint
	now      func() time.Time
}

func NewBlockHeightAgo(client *Client, ep Endpoint) *BlockHeightAgo {
	return &BlockHeightAgo{client: client, endpoint: ep, now: time.Now}
}

func (b *BlockHeightAgo) Name() string { return NameBlockHeight7d }

type blockAtTimestamp struct {
	Height *int64 `json:"height"`
	Hash   string `json:"hash"`
}

func (b *BlockHeightAgo) Fetch(ctx context.Context) (int64, error) {
	ts := b.now().Add(-heightLookback).Unix()
	url := b.endpoint.BaseURL + fmt.Sprintf(blockAtTimestampPath, ts)

	body, err := b.client.get(ctx, b.Name(), b.endpoint.TTL, url, nil)
	if err != nil {
		return 0, fmt.Errorf("mempool block at timestamp: %w", err)
	}

	var blk blockAtTimestamp
	if err := json.Unmarshal(body, &blk); err != nil {
		return 0, fmt.Errorf("decode mempool block: %w", err)
	}
	if blk.Height == nil {
		return 0, fmt.Errorf("mempool block height missing")
	}
	if *blk.Height < 0 {
		return 0, fmt.Errorf("negative block height %d", *blk.Height)
	}
	return *blk.Height, nil
}

// Difficulty fetches the most recent difficulty adjustment.
type Difficulty struct {
	client   *Client
	endpoint Endpoint
}

func NewDifficulty(client *Client, ep Endpoint) *Difficulty {
	return &Difficulty{client: client, endpoint: ep}
}

func (d *Difficulty) Name() string { return NameDifficulty }

func (d *Difficulty) Fetch(ctx context.Context) (compute.DifficultyAdjustment, error) {
	body, err := d.client.get(ctx, d.Name(), d.endpoint.TTL, d.endpoint.BaseURL+difficultyHistoryPath, nil)
	if err != nil {
		return compute.DifficultyAdjustment{}, fmt.Errorf("mempool difficulty adjustments: %w", err)
	}
	return parseDifficulty(body)
}

// parseDifficulty decodes newest-first [time, height, difficulty, factor]
// rows and returns the first one.
func parseDifficulty(body []byte) (compute.DifficultyAdjustment, error) {
	var rows [][]float64
	if err := json.Unmarshal(body, &rows); err != nil {
		return compute.DifficultyAdjustment{}, fmt.Errorf("decode difficulty adjustments: %w", err)
	}
	adj, ok := compute.LatestDifficultyAdjustment(rows).Get()
	if !ok {
		return compute.DifficultyAdjustment{}, fmt.Errorf("no well-formed difficulty adjustment in %d rows", len(rows))
	}
	return adj, nil
}
