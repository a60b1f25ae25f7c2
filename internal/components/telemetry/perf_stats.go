package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	perfStatsInterval  = 30 * time.Second
	perfStatsCpuWindow = 5 * time.Second
)

// perfGauges are created lazily so they bind to the meter provider installed by SetupOtel.
type perfGauges struct {
	cpu        metric.Float64Gauge
	heap       metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func newPerfGauges() (perfGauges, error) {
	meter := otel.Meter("healthplanet-notify/perf_stats")
	var g perfGauges
	var err error
	if g.cpu, err = meter.Float64Gauge("process.cpu_usage", metric.WithUnit("%")); err != nil {
		return g, err
	}
	if g.heap, err = meter.Int64Gauge("process.heap_alloc", metric.WithUnit("MBy")); err != nil {
		return g, err
	}
	g.goroutines, err = meter.Int64Gauge("process.goroutines")
	return g, err
}

func (g perfGauges) record(ctx context.Context, tel API) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	g.heap.Record(ctx, int64(mem.HeapAlloc/1_000_000))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))

	usage, err := cpu.PercentWithContext(ctx, perfStatsCpuWindow, false)
	switch {
	case err != nil:
		tel.ReportWarning("perf_stats.cpu", err)
	case len(usage) > 0:
		g.cpu.Record(ctx, usage[0])
	}
}

// InstrumentPerfStats samples cpu, heap and goroutine counts in the background until ctx is done.
func InstrumentPerfStats(ctx context.Context, tel API) {
	gauges, err := newPerfGauges()
	if err != nil {
		tel.ReportWarning("perf_stats.init", err)
		return
	}

	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				gauges.record(ctx, tel)
			}
		}
	}()
}
