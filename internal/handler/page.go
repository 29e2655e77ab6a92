package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/web3-frozen/btc-dashboard/internal/dashboard"
	"github.com/web3-frozen/btc-dashboard/internal/monitor"
)

// Page renders the HTML dashboard. Before the first refresh completes it
// shows the unavailable notice rather than an error status.
func Page(engine *monitor.Engine, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := dashboard.Render(&buf, dashboard.Build(engine.Latest()), engine.Interval()); err != nil {
			logger.Error("render dashboard failed", "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
