package cmd

import (
	"context"
	"fmt"
	"time"

	"freepress/internal/enrich"

	"github.com/spf13/cobra"
)

var (
	enrichAspects []string
	discoverQuery enrich.DiscoverQuery
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <id>",
	Short: "Research ownership, funding, legal and audience data for an outlet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var aspects []enrich.Aspect
		for _, s := range enrichAspects {
			asp, err := enrich.ParseAspect(s)
			if err != nil {
				return err
			}
			aspects = append(aspects, asp)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		en, err := a.enricher()
		if err != nil {
			return err
		}

		res, err := en.Enrich(ctx, args[0], aspects...)
		if ferr := a.flush(context.Background()); ferr != nil && err == nil {
			err = ferr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: applied=%v empty=%v failed=%v score=%d\n",
			res.Outlet.Name, res.Applied, res.Empty, res.Failed, res.Outlet.FreePressScore)
		return nil
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Ask the AI providers for outlets and add the ones not yet tracked",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		en, err := a.enricher()
		if err != nil {
			return err
		}

		res, err := en.Discover(ctx, discoverQuery)
		if ferr := a.flush(context.Background()); ferr != nil && err == nil {
			err = ferr
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, o := range res.Added {
			fmt.Fprintf(out, "added   %s %s\n", o.ID, o.Name)
		}
		for _, o := range res.Matched {
			fmt.Fprintf(out, "matched %s %s\n", o.ID, o.Name)
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringSliceVar(&enrichAspects, "aspect", nil, "aspects to research: ownership, funding, legal, audience (default all)")

	f := discoverCmd.Flags()
	f.StringVar(&discoverQuery.Country, "country", "", "limit discovery to a country")
	f.StringVar(&discoverQuery.MediaType, "media-type", "", "limit discovery to a media type")
	f.IntVar(&discoverQuery.Limit, "limit", 10, "maximum candidates to accept")

	rootCmd.AddCommand(enrichCmd, discoverCmd)
}
