package main

import (
	"os"

	"github.com/actuallystonmai/aniweb/internal/config"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "aniweb",
	Short:         "Anime scraper aggregation API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(cfg.LogLevel, cfg.LogJSON)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("exiting")
		os.Exit(1)
	}
}
