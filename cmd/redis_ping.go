package cmd

import (
	"context"
	"fmt"
	"time"

	"freepress/internal/redisclient"
	"freepress/internal/storage"

	"github.com/spf13/cobra"
)

// pingCmd pings the configured Redis server.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and print PONG with the stored outlet count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx := context.Background()
		if err := redisclient.Ping(ctx, rdb, 2*time.Second); err != nil {
			return err
		}
		n, err := storage.NewRedisStore(rdb, cfg.Redis.KeyPrefix).Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PONG (%d outlets under %q)\n", n, cfg.Redis.KeyPrefix)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
