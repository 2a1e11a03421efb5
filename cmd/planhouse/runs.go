package main

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/planhouse/planhouse/internal/config"
	"github.com/planhouse/planhouse/internal/db"
	"github.com/planhouse/planhouse/internal/db/service"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingest runs",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			glog.Fatalf("Configuration error: %v", err)
		}
		gormDB, err := db.Connect(cfg)
		if err != nil {
			glog.Fatalf("Failed to connect to warehouse: %v", err)
		}

		runs, err := service.NewRunStore(gormDB).Recent(runsLimit)
		if err != nil {
			glog.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("no ingest runs recorded")
			return
		}

		fmt.Printf("%-36s  %-20s  %5s  %7s  %9s  %7s  %6s  %8s\n",
			"RUN", "STARTED", "NEW", "UPDATED", "UNCHANGED", "SKIPPED", "ROWS", "DURATION")
		for _, r := range runs {
			fmt.Printf("%-36s  %-20s  %5d  %7d  %9d  %7d  %6d  %8s\n",
				r.ID,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.FilesNew, r.FilesUpdated, r.FilesUnchanged, r.FilesSkipped,
				r.RowsLoaded,
				(time.Duration(r.DurationMs) * time.Millisecond).String())
		}
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}
