package main

import (
	"fmt"

	"jobfair/internal/database"
	"jobfair/internal/logger"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored form sessions",
}

var sessionsFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Discard every stored draft in the session cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logger.New("sessions").Function("flush")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Configure(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

		if cfg.CacheAddress == "" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "no cache configured; sessions live in server memory and end with the process")
			return err
		}
		cfg.DatabaseDbPath = ""

		db, err := database.New(cfg)
		if err != nil {
			return log.Err("failed to open cache", err)
		}
		defer func() {
			_ = db.Close()
		}()

		return db.FlushAllCaches()
	},
}
