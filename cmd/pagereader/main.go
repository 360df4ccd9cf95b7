// Package main provides the entry point for the page reader.
//
// The reader serves a plain-text book to the browser a few non-blank lines
// at a time, from a small local HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pagereader/internal/config"
	"pagereader/internal/core"
	"pagereader/internal/logger"
	"pagereader/internal/platform"
	"pagereader/internal/server"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version information set during build time
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running without a subcommand serves.
func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "pagereader",
		Short:        "Read a text book in the browser, a few lines at a time",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, configFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "configuration file (default: cfg.txt next to the executable)")
	flags.String("path", "", "book to read")
	flags.Int("size", 0, "non-blank lines per page")
	flags.Bool("mark", false, "append a break marker for each blank line")
	flags.Int("port", 0, "listen port")
	flags.Bool("hide", false, "hide the console window")
	flags.String("host", "", "listen address")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the reader over HTTP (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, configFile)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "page N",
		Short: "Print page N of the book to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, configFile, args[0])
		},
	})

	return root
}

// setup loads configuration and initializes the logger.
// The returned func flushes and closes the log file.
func setup(cmd *cobra.Command, configFile string) (*config.Config, func(), error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.File != "" {
		log.Debug().Str("file", cfg.File).Msg("Configuration loaded")
	}
	return cfg, func() { closer.Close() }, nil
}

// runServe runs the HTTP reader until SIGINT or SIGTERM.
//
// The startup sequence is as follows:
//  1. Load configuration
//  2. Initialize logger
//  3. Take the single-instance lock
//  4. Hide the console if requested
//  5. Serve until a shutdown signal arrives
func runServe(cmd *cobra.Command, configFile string) error {
	cfg, cleanup, err := setup(cmd, configFile)
	if err != nil {
		return err
	}
	defer cleanup()

	integration := platform.Current()
	release, err := integration.Acquire(platform.InstanceName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			integration.Notify("pagereader", "The reader is already running.")
		}
		log.Error().Err(err).Msg("Failed to acquire instance lock")
		return err
	}
	defer release()

	if cfg.Hide {
		if err := integration.HideConsole(); err != nil {
			log.Warn().Err(err).Msg("Failed to hide console")
		}
	}

	log.Info().
		Str("version", Version).
		Str("commit", GitCommit).
		Str("built", BuildTime).
		Msg("Starting pagereader")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, Version).Start(ctx); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return err
	}
	return nil
}

// runPage prints one page without starting the server.
func runPage(cmd *cobra.Command, configFile, arg string) error {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("page number must be an integer: %q", arg)
	}

	cfg, cleanup, err := setup(cmd, configFile)
	if err != nil {
		return err
	}
	defer cleanup()

	lines, err := core.NewReader(cfg, nil).Read(cmd.Context(), xid.New().String(), number)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
