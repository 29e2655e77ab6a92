package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/web3-frozen/btc-dashboard/internal/dashboard"
	"github.com/web3-frozen/btc-dashboard/internal/monitor"
	"github.com/web3-frozen/btc-dashboard/internal/sources"
)

// writeJSON encodes v before writing so an encoding failure can still
// produce an error status.
func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(body, '\n'))
}

// Tiles returns the dashboard tiles for the latest report.
func Tiles(engine *monitor.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := engine.Latest()
		if rep == nil {
			http.Error(w, `{"error":"no data available yet"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, dashboard.Build(rep))
	}
}

// Report returns the latest raw inputs and derived metrics. Unavailable
// values are encoded as null.
func Report(engine *monitor.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := engine.Latest()
		if rep == nil {
			http.Error(w, `{"error":"no data available yet"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, rep)
	}
}

type sourceMeta struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	TTL     string `json:"ttl"`
}

// Meta describes the configured sources and refresh cadence.
func Meta(engine *monitor.Engine, endpoints map[string]sources.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := engine.SourceNames()
		list := make([]sourceMeta, 0, len(names))
		for _, n := range names {
			ep := endpoints[n]
			list = append(list, sourceMeta{Name: n, BaseURL: ep.BaseURL, TTL: ep.TTL.String()})
		}
		writeJSON(w, map[string]any{
			"sources":          list,
			"refresh_interval": engine.Interval().String(),
		})
	}
}
