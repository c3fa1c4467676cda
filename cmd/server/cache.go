package main

import (
	"errors"

	"github.com/actuallystonmai/aniweb/internal/cache"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Redis response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:     "clear [key...]",
	Short:   "Drop cached responses, all of them when no key is given",
	Example: "  aniweb cache clear\n" +
		"  aniweb cache clear home\n" +
		"  aniweb cache clear info naruto-677",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL is not set")
		}
		c, err := cache.Connect(cmd.Context(), cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer c.Close()

		prefix := cache.BuildKey(args...)
		if err := c.Clear(cmd.Context(), prefix); err != nil {
			return err
		}
		logging.For("cache").WithField("prefix", prefix).Info("cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
