package handler

import (
	"context"
	"net/http"

	"github.com/web3-frozen/btc-dashboard/internal/monitor"
)

// Pinger is satisfied by the response cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// Ready reports ready once the cache is reachable and a first report exists.
func Ready(cache Pinger, engine *monitor.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := cache.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"not ready","reason":"cache unreachable"}`, http.StatusServiceUnavailable)
			return
		}
		if engine.Latest() == nil {
			http.Error(w, `{"status":"not ready","reason":"no report yet"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}
