// Package main provides the planhouse CLI: incremental ingestion of
// client media-plan workbooks into the shared warehouse.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "planhouse",
	Short:   "Media-plan warehouse ingestor",
	Long:    "planhouse walks a per-client directory tree of media-plan workbooks,\nresolves free-text dimension references into stable warehouse ids and\nkeeps the fact table in sync with the tree.",
	Version: version,
}

func main() {
	// glog wants its flags parsed even when only Fatalf is used.
	_ = flag.Set("logtostderr", "true")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
