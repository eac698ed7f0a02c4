package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const perfStatsInterval = 30 * time.Second

type perfGauges struct {
	cpuPercent metric.Float64Gauge
	rssMb      metric.Int64Gauge
	heapMb     metric.Int64Gauge
	goroutines metric.Int64Gauge
}

// InstrumentPerfStats publishes cpu, memory and goroutine gauges of this
// process until ctx is done.
func InstrumentPerfStats(ctx context.Context) {
	meter := otel.Meter("myclinic-backend/perf_stats")
	var gauges perfGauges
	gauges.cpuPercent, _ = meter.Float64Gauge("process.cpu_percent")
	gauges.rssMb, _ = meter.Int64Gauge("process.rss_mb")
	gauges.heapMb, _ = meter.Int64Gauge("go.heap_alloc_mb")
	gauges.goroutines, _ = meter.Int64Gauge("go.goroutines")

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		slog.Warn("process stats unavailable", "err", err)
	}

	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gauges.record(ctx, proc)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (g perfGauges) record(ctx context.Context, proc *process.Process) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	g.heapMb.Record(ctx, int64(memStats.HeapAlloc/1_000_000))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))

	if proc == nil {
		return
	}
	cpuPercent, err := proc.PercentWithContext(ctx, 0)
	if err != nil {
		slog.Debug("read process cpu", "err", err)
	} else {
		g.cpuPercent.Record(ctx, cpuPercent)
	}
	memInfo, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		slog.Debug("read process memory", "err", err)
	} else {
		g.rssMb.Record(ctx, int64(memInfo.RSS/1_000_000))
	}
}
