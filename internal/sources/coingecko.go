package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

const coingeckoMarketsPath = "/coins/markets?vs_currency=usd&ids=bitcoin&price_change_percentage=24h"

type coingeckoMarket struct {
	CurrentPrice             decimal.Decimal `json:"current_price"`
	PriceChangePercentage24h decimal.Decimal `json:"price_change_percentage_24h"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	CirculatingSupply        *float64        `json:"circulating_supply"`
}

// CoinGecko fetches BTC market data from the CoinGecko markets endpoint.
type CoinGecko struct {
	client   *Client
	endpoint Endpoint
	apiKey   string
}

// NewCoinGecko returns a price source. apiKey is optional and sent as a
// demo API key when set.
func NewCoinGecko(client *Client, ep Endpoint, apiKey string) *CoinGecko {
	return &CoinGecko{client: client, endpoint: ep, apiKey: apiKey}
}

func (c *CoinGecko) Name() string { return NamePrice }

func (c *CoinGecko) Fetch(ctx context.Context) (compute.PricePoint, error) {
	var header http.Header
	if c.apiKey != "" {
		header = http.Header{"x-cg-demo-api-key": []string{c.apiKey}}
	}

	body, err := c.client.get(ctx, c.Name(), c.endpoint.TTL, c.endpoint.BaseURL+coingeckoMarketsPath, header)
	if err != nil {
		return compute.PricePoint{}, fmt.Errorf("coingecko API: %w", err)
	}
	return parseCoinGecko(body)
}

func parseCoinGecko(body []byte) (compute.PricePoint, error) {
	var markets []coingeckoMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return compute.PricePoint{}, fmt.Errorf("decode coingecko markets: %w", err)
	}
	if len(markets) == 0 {
		return compute.PricePoint{}, fmt.Errorf("no coingecko market data")
	}

	m := markets[0]
	if !m.CurrentPrice.IsPositive() {
		return compute.PricePoint{}, fmt.Errorf("coingecko price missing")
	}
	if m.CirculatingSupply == nil {
		return compute.PricePoint{}, fmt.Errorf("coingecko circulating supply missing")
	}
	supply := *m.CirculatingSupply
	if supply < 0 || supply > compute.TerminalSupply {
		return compute.PricePoint{}, fmt.Errorf("circulating supply %.0f outside [0, %d]", supply, compute.TerminalSupply)
	}

	return compute.PricePoint{
		Price:             m.CurrentPrice,
		Change24hPct:      m.PriceChangePercentage24h,
		MarketCap:         m.MarketCap,
		CirculatingSupply: int64(math.Floor(supply)),
	}, nil
}
