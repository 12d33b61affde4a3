package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Atharva-Kanherkar/reverie/internal/insights"
	"github.com/Atharva-Kanherkar/reverie/internal/sources"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		force bool
		from  string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an insight analysis pass",
		Long: `Run an insight analysis pass over stored source data.

The pass is skipped when insights are disabled or the configured frequency
window has not elapsed since the last run, unless --force is given.

Examples:
  # Run if due
  reverie analyze

  # Run now over a file instead of stored data
  reverie analyze --force --from export.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runOpts := insights.RunOptions{Force: force}
			if from != "" {
				b, err := sources.ReadBundleFile(from)
				if err != nil {
					return err
				}
				runOpts.Sources = b
			}

			return withApp(opts, func(a *app) error {
				res, err := a.ledger.RunAnalysis(cmd.Context(), runOpts)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), res)
				}

				out := cmd.OutOrStdout()
				if res.Skipped {
					fmt.Fprintf(out, "Analysis skipped: %s\n", res.Reason)
					return nil
				}
				fmt.Fprintf(out, "Analyzed %d days: %d candidates, %d new, %d reinforced, %d below confidence\n",
					res.DataPoints, res.Candidates, res.Created, res.Reinforced, res.Discarded)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "run even if the frequency window has not elapsed")
	cmd.Flags().StringVar(&from, "from", "", "analyze records from this file instead of storage")
	return cmd
}

func newObserveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "observe",
		Short: "Show which daily factors move with mood",
		Long: `Correlate sleep, exercise, social contact, time outdoors, caffeine, and
alcohol with mood across stored days, and print the strongest relationships.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				obs := a.ledger.Observations(cmd.Context(), nil)
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), obs)
				}

				if len(obs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Not enough mood data yet.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "FACTOR\tR\tDAYS\tCONFIDENCE\tOBSERVATION")
				for _, o := range obs {
					fmt.Fprintf(w, "%s\t%+.2f\t%d\t%s\t%s\n", o.Factor, o.Correlation, o.SampleSize, o.Confidence, o.Description)
				}
				return w.Flush()
			})
		},
	}
}
