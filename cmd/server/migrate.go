package main

import (
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/actuallystonmai/aniweb/seeds"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or drop the Postgres schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		log := logging.For("migrate")
		if args[0] == "down" {
			if err := repo.MigrateDown(cmd.Context()); err != nil {
				return err
			}
			log.Info("migrations dropped successfully")
			return nil
		}
		if err := repo.MigrateUp(cmd.Context()); err != nil {
			return err
		}
		log.Info("migrations applied successfully")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the Guest profile and default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		return seeds.Setup(cmd.Context(), store)
	},
}
