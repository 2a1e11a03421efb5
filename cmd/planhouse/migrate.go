package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/planhouse/planhouse/internal/config"
	"github.com/planhouse/planhouse/internal/db"
	"github.com/planhouse/planhouse/internal/db/schema"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the warehouse tables",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			glog.Fatalf("Configuration error: %v", err)
		}
		gormDB, err := db.Connect(cfg)
		if err != nil {
			glog.Fatalf("Failed to connect to warehouse: %v", err)
		}
		if err := schema.AutoMigrate(gormDB); err != nil {
			glog.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("warehouse schema up to date")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
