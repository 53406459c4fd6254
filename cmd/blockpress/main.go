// Package main is the entry point for the BlockPress template server. The
// root command loads configuration and the structured logger; subcommands
// serve the REST API, manage migrations and inspect templates offline.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"blockpress/internal/config"
)

var (
	version = "dev"
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "blockpress",
	Short:   "Block template registry and REST server",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogger(cfg)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, templatesCmd)
}

// setupLogger installs the default slog logger: text in development, JSON
// everywhere else.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
