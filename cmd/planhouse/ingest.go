package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/planhouse/planhouse/internal/config"
	"github.com/planhouse/planhouse/internal/db"
	"github.com/planhouse/planhouse/internal/db/schema"
	"github.com/planhouse/planhouse/internal/ingest"
)

var rootOverride string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one incremental load pass over the media-plan tree",
	Run: func(cmd *cobra.Command, args []string) {
		if rootOverride != "" {
			os.Setenv("PLANHOUSE_PLAN_ROOT", rootOverride)
		}
		cfg, err := config.Load()
		if err != nil {
			glog.Fatalf("Configuration error: %v", err)
		}

		gormDB, err := db.Connect(cfg)
		if err != nil {
			glog.Fatalf("Failed to connect to warehouse: %v", err)
		}
		if err := schema.AutoMigrate(gormDB); err != nil {
			glog.Fatalf("Failed to migrate warehouse schema: %v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orch := ingest.New(gormDB, cfg.PlanRoot, slog.Default())
		summary, err := orch.Run(ctx)
		if err != nil {
			glog.Fatalf("Ingest run failed: %v", err)
		}

		fmt.Printf("run %s: %d new, %d updated, %d unchanged, %d skipped, %d rows loaded, %d files archived\n",
			summary.RunID, summary.New, summary.Updated, summary.Unchanged,
			summary.Skipped, summary.RowsLoaded, summary.Deactivated)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&rootOverride, "root", "", "Override the media-plan root directory")
	rootCmd.AddCommand(ingestCmd)
}
