package main

import (
	"fmt"
	"os"

	"ai-tutor-be/internal/bootstrap"
	"ai-tutor-be/internal/config"
	"ai-tutor-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load reference documentation into the tutor's knowledge base",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(filesCmd, queryCmd)
}

// newContainer wires the same stack as the server so the CLI writes to the configured store.
func newContainer() (*bootstrap.Container, error) {
	cfg := config.Load()
	if cfg.Database.Backend == "memory" {
		color.Yellow("STORE_BACKEND=memory: ingested chunks live only for this run")
	}

	var db *gorm.DB
	if cfg.Database.Backend == "postgres" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection, true)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	}
	return bootstrap.NewContainer(db, cfg)
}
