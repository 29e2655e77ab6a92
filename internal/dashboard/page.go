package dashboard

import (
	"embed"
	"html/template"
	"io"
	"time"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"percent": func(f float64) string { return formatPercent(f) },
	"utc":     func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05 UTC") },
}).ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	Board
	RefreshSeconds int
}

// Render writes the HTML dashboard for b. The page reloads itself every
// refresh interval.
func Render(w io.Writer, b Board, refresh time.Duration) error {
	return pageTmpl.Execute(w, pageData{Board: b, RefreshSeconds: int(refresh.Seconds())})
}
