package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"myclinic-backend/internal/components/chrono"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/internal/config"
	"myclinic-backend/internal/scrapers/myclinic"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	email      string
	password   string
	verbose    bool
	quiet      bool
	asJson     bool
)

var rootCmd = &cobra.Command{
	Use:   "myclinic-cli",
	Short: "myclinic-cli logs into a myclinic tenant and prints its agenda and reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "config.json5", "Path to the json5 config file.")
	flags.StringVar(&email, "email", "", "Login identity, overrides MYCLINIC_EMAIL.")
	flags.StringVar(&password, "password", "", "Login secret, overrides MYCLINIC_PASSWORD.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging.")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Drop scraper warnings.")
	flags.BoolVar(&asJson, "json", false, "Print json instead of a table.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadClient builds a client from the config and the credential flags, the
// returned credentials are the ones to log in with.
func loadClient() (*myclinic.Client, config.MyclinicConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.MyclinicConfig{}, err
	}
	if email != "" {
		cfg.Myclinic.Email = email
	}
	if password != "" {
		cfg.Myclinic.Password = password
	}

	opts, err := cfg.Myclinic.ClientOptions()
	if err != nil {
		return nil, config.MyclinicConfig{}, err
	}
	var tel telemetry.API = telemetry.SlogAPI{}
	if quiet {
		tel = telemetry.NopAPI{}
	}
	client, err := myclinic.NewClient(opts, chrono.StandardImpl{}, tel)
	if err != nil {
		return nil, config.MyclinicConfig{}, err
	}
	return client, cfg.Myclinic, nil
}

// loggedInClient is loadClient followed by a login, every command but login
// itself needs a session.
func loggedInClient(ctx context.Context) (*myclinic.Client, error) {
	client, cfg, err := loadClient()
	if err != nil {
		return nil, err
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("no credentials, pass --email and --password or set MYCLINIC_EMAIL and MYCLINIC_PASSWORD")
	}
	if !client.Login(ctx, cfg.Email, cfg.Password) {
		return nil, fmt.Errorf("login failed for %s", cfg.Email)
	}
	return client, nil
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}

func printJson(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
