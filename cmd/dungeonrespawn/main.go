package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const DefaultConfigPath = "config/dungeonrespawn.yaml"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	configPath := DefaultConfigPath
	if p := os.Getenv("DUNGEONRESPAWN_CONFIG"); p != "" {
		configPath = p
	}

	root := &cobra.Command{
		Use:           "dungeonrespawn",
		Short:         "Redirect instance death recovery to the instance entrance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "path to YAML config")

	root.AddCommand(
		newRunCommand(&configPath),
		newMigrateCommand(&configPath),
		newEntrancesCommand(&configPath),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dungeonrespawn version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "dungeonrespawn", version)
			return err
		},
	}
}

// setupLogging configures the default slog logger from config.LogLevel.
func setupLogging(level string) slog.Level {
	logLevel := parseLogLevel(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	return logLevel
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
