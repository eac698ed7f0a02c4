package main

import (
	"context"
	"flag"
	"log/slog"
	"myclinic-backend/internal/api"
	"myclinic-backend/internal/components/chrono"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/internal/config"
	"myclinic-backend/internal/scrapers/myclinic"
	"myclinic-backend/lib/serviceutil"
	"time"
)

// autoLogin logs in with the configured credentials, a failure only leaves
// the facade unauthenticated.
func autoLogin(ctx context.Context, client *myclinic.Client, cfg config.MyclinicConfig) {
	if cfg.Email == "" || cfg.Password == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if client.Login(ctx, cfg.Email, cfg.Password) {
		slog.Info("auto-login successful", "email", cfg.Email)
		return
	}
	slog.Warn("auto-login failed", "email", cfg.Email)
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the json5 config file.")
	flag.Parse()

	ctx := serviceutil.SignalContext()
	output := InitTelemetry(ctx, *verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	opts, err := cfg.Myclinic.ClientOptions()
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	opts.Output = output

	tel := telemetry.SlogAPI{}
	clock := chrono.StandardImpl{}
	client, err := myclinic.NewClient(opts, clock, tel)
	if err != nil {
		serviceutil.Fatal("init myclinic client", err)
	}

	go autoLogin(ctx, client, cfg.Myclinic)

	router := api.NewRouter(client, clock, tel, nil)
	serviceutil.StartHttpServer(ctx, cfg.Port, router)
}
