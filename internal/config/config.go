// Package config loads the settings shared by the server and the cli.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"myclinic-backend/internal/scrapers/myclinic"
	"myclinic-backend/lib/configutil"
	"os"
	"time"

	"dario.cat/mergo"
)

type MyclinicConfig struct {
	BaseUrl   string `json:"base_url" env:"MYCLINIC_BASE_URL"`
	Subdomain string `json:"subdomain" env:"MYCLINIC_SUBDOMAIN"`
	SalonId   string `json:"salon_id" env:"MYCLINIC_SALON_ID"`
	// Email and Password enable logging in on start.
	Email    string `json:"email" env:"MYCLINIC_EMAIL"`
	Password string `json:"password" env:"MYCLINIC_PASSWORD"`
	// DetailConcurrency of 0 takes the default, negative is unbounded.
	DetailConcurrency int    `json:"detail_concurrency" env:"MYCLINIC_DETAIL_CONCURRENCY"`
	Timeout           string `json:"timeout" env:"MYCLINIC_TIMEOUT"`
	CloudflareBypass  bool   `json:"cloudflare_bypass" env:"MYCLINIC_CLOUDFLARE_BYPASS"`
}

type Config struct {
	Port     int            `json:"port" env:"PORT"`
	Myclinic MyclinicConfig `json:"myclinic"`
}

func Default() Config {
	return Config{
		Port: 3000,
		Myclinic: MyclinicConfig{
			BaseUrl:           "https://myclinic.bemp.app",
			Subdomain:         "myclinic",
			SalonId:           "436",
			DetailConcurrency: myclinic.DefaultDetailConcurrency,
			Timeout:           "30s",
		},
	}
}

// Load reads `path` (and its .local override) when it exists, fills
// what it leaves unset with defaults and then applies the environment, which
// includes `.env`.
func Load(path string) (Config, error) {
	err := configutil.LoadDotenv(".env")
	if err != nil {
		return Config{}, err
	}

	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no config file, using defaults and environment", "path", path)
	} else if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	err = mergo.Merge(&cfg, Default())
	if err != nil {
		return Config{}, err
	}
	err = configutil.ApplyEnv(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ClientOptions converts the config into the scraper's options.
func (c MyclinicConfig) ClientOptions() (myclinic.Options, error) {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return myclinic.Options{}, fmt.Errorf("timeout: %w", err)
	}
	return myclinic.Options{
		BaseUrl:           c.BaseUrl,
		Subdomain:         c.Subdomain,
		SalonId:           c.SalonId,
		DetailConcurrency: c.DetailConcurrency,
		Timeout:           timeout,
		CloudflareBypass:  c.CloudflareBypass,
	}, nil
}
