package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"freepress/internal/dedup"
	"freepress/internal/report"

	"github.com/spf13/cobra"
)

var reportStdout bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the Free Press scoreboard as Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		now := time.Now()
		all := a.repo.GetAll()
		groups := dedup.GroupPairs(all, dedup.ScanPairs(all, dedupOptions(a.cfg)))
		md, err := report.Render(report.Build(a.cfg.Report.Title, all, groups, a.cfg.Report.TopN, now))
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if reportStdout {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		dir := a.cfg.Report.OutputDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(dir, "scoreboard-"+now.UTC().Format("2006-01-02")+".md")
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "print instead of writing to report.output_dir")
	rootCmd.AddCommand(reportCmd)
}
