package cmd

import (
	"context"
	"fmt"
	"strings"

	"freepress/internal/dedup"

	"github.com/spf13/cobra"
)

var (
	dupJSON   bool
	dupDryRun bool
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Find and merge duplicate outlet records",
}

var duplicatesFindCmd = &cobra.Command{
	Use:   "find",
	Short: "List matching pairs and their groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		all := a.repo.GetAll()
		pairs := dedup.ScanPairs(all, dedupOptions(a.cfg))
		groups := dedup.GroupPairs(all, pairs)
		if dupJSON {
			return printJSON(cmd, map[string]any{"pairs": pairs, "groups": groups})
		}
		out := cmd.OutOrStdout()
		for _, p := range pairs {
			fmt.Fprintf(out, "%-8s %s <-> %s  %s\n", p.MatchType, p.Outlet1.ID, p.Outlet2.ID, p.Reason)
		}
		for _, g := range groups {
			fmt.Fprintf(out, "group %q (%d, %s): %s\n", g.Name, g.Count, g.MatchType, strings.Join(g.IDs, ", "))
		}
		fmt.Fprintf(out, "%d pairs, %d groups\n", len(pairs), len(groups))
		return nil
	},
}

var duplicatesMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Remove every duplicate but the first record of each group",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if dupDryRun {
			all := a.repo.GetAll()
			groups := dedup.GroupPairs(all, dedup.ScanPairs(all, dedupOptions(a.cfg)))
			ids := dedup.RemovalSet(groups)
			fmt.Fprintf(out, "would remove %d records from %d groups: %s\n", len(ids), len(groups), strings.Join(ids, ", "))
			return nil
		}

		rep := dedup.NewResolver(a.repo, dedupOptions(a.cfg)).Merge()
		if err := a.flush(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d pairs, %d groups, removed %d\n", rep.Pairs, len(rep.Groups), rep.Removed)
		return nil
	},
}

func init() {
	duplicatesFindCmd.Flags().BoolVar(&dupJSON, "json", false, "print pairs and groups as JSON")
	duplicatesMergeCmd.Flags().BoolVar(&dupDryRun, "dry-run", false, "only print what would be removed")
	duplicatesCmd.AddCommand(duplicatesFindCmd, duplicatesMergeCmd)
	rootCmd.AddCommand(duplicatesCmd)
}
