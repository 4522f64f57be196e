package cmd

import "github.com/spf13/cobra"

// redisCmd groups backing store diagnostics.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Inspect the Redis backing store",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
