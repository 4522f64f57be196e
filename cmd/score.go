package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var scoreAll bool

var scoreCmd = &cobra.Command{
	Use:   "score [id]",
	Short: "Recompute Free Press scores for one outlet or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreAll == (len(args) == 1) {
			return errors.New("pass either an outlet id or --all")
		}
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if scoreAll {
			n := a.repo.RecomputeAll()
			if err := a.flush(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d of %d outlets\n", n, a.repo.Len())
			return nil
		}

		o, err := a.repo.RecomputeScores(args[0])
		if err != nil {
			return err
		}
		if err := a.flush(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: free press %d (fact-check %d, independence %d, transparency %d)\n",
			o.Name, o.FreePressScore, o.FactCheckAccuracy, o.EditorialIndependence, o.Transparency)
		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "recompute every outlet")
	rootCmd.AddCommand(scoreCmd)
}
