// Package cli wires the pipeline together behind a cobra command: load
// configuration, read the borough URL list, crawl, and write calendars.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/elchenberg/gremienkalender/internal/config"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig    string
	flagInput     string
	flagOutputDir string
	flagDelay     time.Duration
	flagNoDetails bool
	flagVerbose   bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gremienkalender",
		Short: "Crawl the Berlin committee portals into iCalendar files",
		Long: `Crawls the committee-meeting portals of the twelve Berlin boroughs,
extracts the forthcoming meeting schedules and writes one iCalendar (.ics)
file per committee, plus an index.html overview page.

Each run recomputes all calendars from scratch; event UIDs are stable, so
re-running overwrites instead of duplicating.`,
		RunE: runCrawl,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagInput, "input", "", "Borough URL list, one URL per line")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Directory for .ics files and index.html")
	cmd.Flags().DurationVar(&flagDelay, "delay", 0, "Minimum pause between requests")
	cmd.Flags().BoolVar(&flagNoDetails, "no-details", false, "Skip per-event detail pages")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// loadConfig merges the file/env configuration with the flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagInput != "" {
		cfg.InputFile = flagInput
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagDelay > 0 {
		cfg.Delay = config.Duration(flagDelay)
	}
	if flagNoDetails {
		cfg.FetchDetails = false
	}
	return cfg, nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
