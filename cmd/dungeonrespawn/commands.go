package main

import (
	"fmt"
	"log/slog"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/udisondev/dungeonrespawn/internal/config"
	"github.com/udisondev/dungeonrespawn/internal/service"
)

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Hold the entrance store, serve metrics and reload on config change until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			setupLogging(cfg.LogLevel)
			slog.Info("dungeonrespawn starting", "version", version, "config", *configPath, "log_level", cfg.LogLevel)

			svc := service.New(cmd.Context(), *configPath, cfg)
			return svc.Run(cmd.Context())
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply entrance store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			setupLogging(cfg.LogLevel)

			// OpenStore применяет миграции при открытии.
			_, closeStore, err := service.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			closeStore()
			slog.Info("database migrations applied", "driver", cfg.Storage.Driver)
			return nil
		},
	}
}

func newEntrancesCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "entrances",
		Short: "List stored instance entrances",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			setupLogging("error")

			store, closeStore, err := service.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			rows, err := store.LoadEntrances(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading entrances: %w", err)
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].CharacterID < rows[j].CharacterID })

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHARACTER\tMAP\tX\tY\tZ\tO")
			for _, row := range rows {
				fmt.Fprintf(w, "%d\t%d\t%.2f\t%.2f\t%.2f\t%.3f\n",
					row.CharacterID, row.MapID, row.X, row.Y, row.Z, row.O)
			}
			return w.Flush()
		},
	}
}
