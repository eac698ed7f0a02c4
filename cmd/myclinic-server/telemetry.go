package main

import (
	"context"
	"errors"
	"log/slog"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/lib/configutil"
	"myclinic-backend/lib/restyutil"
	"myclinic-backend/lib/serviceutil"
	"os"
)

// InitTelemetry sets up logging, the otlp exporters of telemetry.json5 and
// process stats. In verbose mode the raw scraper traffic is dumped to
// .dev/resty/myclinic, the returned output is nil otherwise.
func InitTelemetry(ctx context.Context, verbose bool) restyutil.InstrumentOutput {
	telemetry.InitSlog(verbose)
	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	cfg, err := configutil.ReadConfig[telemetry.Config]("telemetry.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("read telemetry config", err)
	}
	tel, err := telemetry.Setup(ctx, "myclinic-server", cfg)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx)

	if !verbose {
		return nil
	}
	output, err := restyutil.NewFilesystemOutput(".dev/resty/myclinic")
	if err != nil {
		slog.Warn("resty output disabled", "err", err)
		return nil
	}
	return output
}
