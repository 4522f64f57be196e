package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"freepress/internal/model"
	"freepress/internal/outlets"

	"github.com/spf13/cobra"
)

var (
	addCandidate model.Candidate
	addBias      float64
)

var outletsCmd = &cobra.Command{
	Use:   "outlets",
	Short: "Manage tracked outlets",
}

var outletsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outlets in collection order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tWEBSITE\tCOUNTRY\tSCORE\tBIAS")
		for _, o := range a.repo.GetAll() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%+.1f\n", o.ID, o.Name, o.Website, o.Country, o.FreePressScore, o.BiasScore)
		}
		return tw.Flush()
	},
}

var outletsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one outlet as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		o, ok := a.repo.Get(args[0])
		if !ok {
			return fmt.Errorf("%s: %w", args[0], outlets.ErrNotFound)
		}
		return printJSON(cmd, o)
	},
}

var outletsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an outlet unless it duplicates an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		o, created, err := a.repo.Add(addCandidate)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "duplicate of %s (%s), not added\n", o.ID, o.Name)
			return nil
		}
		if cmd.Flags().Changed("bias") {
			o, _ = a.repo.Update(o.ID, outlets.Patch{BiasScore: &addBias})
		}
		if err := a.flush(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) score=%d\n", o.ID, o.Name, o.FreePressScore)
		return nil
	},
}

var outletsRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove outlets by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		n := a.repo.RemoveByIDs(args)
		if err := a.flush(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d\n", n, len(args))
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	f := outletsAddCmd.Flags()
	f.StringVar(&addCandidate.Name, "name", "", "outlet name (required)")
	f.StringVar(&addCandidate.Website, "website", "", "outlet website URL")
	f.StringVar(&addCandidate.Country, "country", "", "country of operation")
	f.StringVar(&addCandidate.MediaType, "media-type", "", "media type, e.g. newspaper, broadcast, digital")
	f.StringVar(&addCandidate.EstimatedAudience, "audience", "", "estimated audience size")
	f.StringVar(&addCandidate.Description, "description", "", "short description")
	f.Float64Var(&addBias, "bias", 0, "bias score from -2 (left) to 2 (right)")
	_ = outletsAddCmd.MarkFlagRequired("name")

	outletsCmd.AddCommand(outletsListCmd, outletsShowCmd, outletsAddCmd, outletsRemoveCmd)
	rootCmd.AddCommand(outletsCmd)
}
