package cmd

import (
	"context"
	"fmt"

	"freepress/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [dir]",
	Short: "Import outlets from Markdown files with YAML frontmatter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		dir := cfg.Seed.Dir
		if len(args) == 1 {
			dir = args[0]
		}
		if !seed.Exists(dir) {
			return fmt.Errorf("seed dir %s does not exist", dir)
		}
		entries, err := seed.LoadDir(dir)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := seed.Apply(a.repo, entries)
		if ferr := a.flush(ctx); ferr != nil && err == nil {
			err = ferr
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, d := range rep.Duplicates {
			fmt.Fprintf(out, "skipped %s: duplicate of %s (%s)\n", d.File, d.Existing.ID, d.Existing.Name)
		}
		fmt.Fprintf(out, "seeded %d outlets from %s, %d duplicates\n", len(rep.Added), dir, len(rep.Duplicates))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
