// Package commands is the trivia-finder command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"trivia-finder/config"
	"trivia-finder/models"
	"trivia-finder/services"
	"trivia-finder/storage"
	"trivia-finder/utils"
	"trivia-finder/widget"
)

const appName = "trivia-finder"

// Version is set at build time with -ldflags.
var Version = "dev"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	stdout io.Writer
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		csvURL       string
		defaultsFile string
		logLevel     string
	)
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Find trivia nights on a map",
		Long: `trivia-finder loads a venue table (CSV over HTTP, a local CSV file or a
PostgreSQL table), filters it by day and location, and keeps a venue list and
a map in sync.

It can list or export the filtered venues, render every widget mount found in
a host page to HTML snapshots, or browse one dataset interactively.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if defaultsFile != "" {
				d, err := config.LoadDefaultsFile(defaultsFile)
				if err != nil {
					return err
				}
				a.cfg.ApplyDefaults(d)
			}
			if csvURL != "" {
				a.cfg.CSVURL = csvURL
			}
			if logLevel != "" {
				a.cfg.LogLevel = logLevel
			}
			a.logger = utils.NewLoggerTo(cmd.ErrOrStderr(), utils.ParseLevel(a.cfg.LogLevel))
			a.stdout = cmd.OutOrStdout()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&csvURL, "csv", "", "Default dataset locator (URL, file path or postgres:// DSN)")
	cmd.PersistentFlags().StringVar(&defaultsFile, "defaults", "", "YAML defaults file (csv_url, center, zoom)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newListCmd(a),
		newExportCmd(a),
		newRenderCmd(a),
		newBrowseCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// loader wires every dataset source the configuration allows.
func (a *app) loader() *services.Loader {
	l := services.NewLoader(a.logger).
		WithSource(storage.NewHTTPSource(a.cfg.FetchTimeout()), "http", "https")

	pg, err := storage.NewPostgresSource(a.cfg.PostgresTable, a.cfg.MaxRetries, a.logger)
	if err != nil {
		a.logger.Warn("[config] PostgreSQL source disabled: %v", err)
		return l
	}
	return l.WithSource(pg, "postgres", "postgresql")
}

func (a *app) settings() widget.Settings {
	return widget.Settings{
		DefaultDataURL:  a.cfg.CSVURL,
		Center:          models.LatLng{Lat: a.cfg.CenterLat, Lng: a.cfg.CenterLng},
		Zoom:            a.cfg.Zoom,
		SingleVenueZoom: a.cfg.SingleVenueZoom,
		SelectedZoom:    a.cfg.SelectedZoom,
	}
}

func (a *app) managerConfig() widget.ManagerConfig {
	return widget.ManagerConfig{
		DiscoveryMaxAttempts: a.cfg.DiscoveryMaxAttempts,
		DiscoveryInterval:    a.cfg.DiscoveryInterval(),
		MaxConcurrency:       a.cfg.MaxConcurrency,
		RateLimitMs:          a.cfg.RateLimitMs,
	}
}

// locator picks the positional dataset argument over the configured default.
func (a *app) locator(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.CSVURL
}

// filtered loads a dataset and applies a day/location filter with the same
// cascade the widget uses: a location not offered for the day falls back to All.
func (a *app) filtered(ctx context.Context, locator, day, location string) ([]*models.Venue, models.FilterState, error) {
	venues, err := a.loader().Load(ctx, locator)
	if err != nil {
		if widget.IsConfigurationError(err) {
			return nil, models.FilterState{}, fmt.Errorf("no dataset: pass a locator or set --csv / TRIVIA_CSV_URL")
		}
		return nil, models.FilterState{}, err
	}

	f := models.FilterState{Day: day, Location: location}
	if f.Day == "" {
		f.Day = models.AllOption
	}
	if f.Location == "" {
		f.Location = models.AllOption
	}
	reconciled := services.ReconcileLocation(services.LocationOptions(venues, f.Day), f.Location)
	if reconciled != f.Location {
		a.logger.Warn("[filter] No %q venues on %s, showing all locations", f.Location, f.Day)
		f.Location = reconciled
	}
	return services.Visible(venues, f), f, nil
}
