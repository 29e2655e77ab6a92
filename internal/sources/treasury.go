package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/web3-frozen/btc-dashboard/internal/compute"
)

const treasuryCSVPath = "/category_btc-treasuries.csv"

// holdingCategories are summed per row into the institutional total.
var holdingCategories = []string{
	"btc_mining_companies",
	"countries",
	"defi",
	"etfs",
	"private_companies",
	"public_companies",
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Institutional fetches the BTC-Treasury category CSV and totals holdings
// across tracked categories for each observation.
type Institutional struct {
	client   *Client
	endpoint Endpoint
}

func NewInstitutional(client *Client, ep Endpoint) *Institutional {
	return &Institutional{client: client, endpoint: ep}
}

func (i *Institutional) Name() string { return NameInstitutional }

func (i *Institutional) Fetch(ctx context.Context) (compute.HoldingsSeries, error) {
	body, err := i.client.get(ctx, i.Name(), i.endpoint.TTL, i.endpoint.BaseURL+treasuryCSVPath, nil)
	if err != nil {
		return nil, fmt.Errorf("treasury CSV: %w", err)
	}
	return parseTreasuryCSV(body)
}

func parseTreasuryCSV(body []byte) (compute.HoldingsSeries, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read treasury CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("treasury CSV has no rows")
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.TrimSpace(h)] = i
	}
	tsCol, ok := cols["timestamp"]
	if !ok {
		return nil, fmt.Errorf("treasury CSV missing timestamp column")
	}
	sumCols := make([]int, 0, len(holdingCategories))
	for _, c := range holdingCategories {
		idx, ok := cols[c]
		if !ok {
			return nil, fmt.Errorf("treasury CSV missing column %q", c)
		}
		sumCols = append(sumCols, idx)
	}

	series := make(compute.HoldingsSeries, 0, len(records)-1)
	for n, rec := range records[1:] {
		if tsCol >= len(rec) {
			return nil, fmt.Errorf("treasury CSV row %d: short row", n+2)
		}
		ts, err := parseTimestamp(rec[tsCol])
		if err != nil {
			return nil, fmt.Errorf("treasury CSV row %d: %w", n+2, err)
		}
		var total float64
		for _, idx := range sumCols {
			if idx >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[idx])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("treasury CSV row %d: parse %q: %w", n+2, cell, err)
			}
			// NaN cells are missing data, like blanks.
			if math.IsNaN(v) {
				continue
			}
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("treasury CSV row %d: non-finite value %q", n+2, cell)
			}
			total += v
		}
		series = append(series, compute.Point{Time: ts, Value: total})
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
