package internal

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed inspect.html
var templatesFS embed.FS

// GroupRow is one line of the inspect page's group table.
type GroupRow struct {
	ID       string
	Name     string
	Members  int
	Messages int
}

type RowsProvider func() []GroupRow
type StatsProvider func() map[string]any

type PageData struct {
	Rows  []GroupRow
	Stats map[string]any
}

// DebugServer serves the inspect dashboard and the prometheus scrape
// endpoint. Live state is read through the injected providers so the
// package stays decoupled from the registries it reports on.
type DebugServer struct {
	log      *slog.Logger
	addr     string
	rows     RowsProvider
	stats    StatsProvider
	gatherer prometheus.Gatherer
	started  time.Time
}

func NewDebugServer(log *slog.Logger, addr string, rows RowsProvider, stats StatsProvider, gatherer prometheus.Gatherer) *DebugServer {
	return &DebugServer{log: log, addr: addr, rows: rows, stats: stats, gatherer: gatherer, started: time.Now()}
}

// Run implements contract.Worker: it blocks serving HTTP until the
// context is canceled.
func (d *DebugServer) Run(ctx context.Context) error {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux := http.NewServeMux()
	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		data := PageData{Stats: make(map[string]any)}
		if d.rows != nil {
			data.Rows = d.rows()
		}
		if d.stats != nil {
			for k, v := range d.stats() {
				data.Stats[k] = v
			}
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		data.Stats["alloc_mem_mb"] = m.Alloc / 1024 / 1024
		data.Stats["goroutines"] = runtime.NumGoroutine()
		data.Stats["uptime"] = time.Since(d.started).Round(time.Second).String()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			d.log.Warn("Inspect page rendering failed", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: d.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	d.log.Info("Debug server listening", "addr", fmt.Sprintf("http://localhost%s/inspect", d.addr))
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) || ctx.Err() != nil {
		return nil
	}
	return err
}
