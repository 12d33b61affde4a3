package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Atharva-Kanherkar/reverie/internal/insights"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change insight settings",
	}
	cmd.AddCommand(newSettingsShowCmd(opts), newSettingsSetCmd(opts))
	return cmd
}

func newSettingsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective insight settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				s := a.ledger.Settings(cmd.Context())
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), s)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "enabled\t%t\n", s.Enabled)
				fmt.Fprintf(w, "frequency\t%s\n", s.Frequency)
				fmt.Fprintf(w, "min_confidence\t%.2f\n", s.MinConfidence)
				fmt.Fprintf(w, "allow_coach_mentions\t%t\n", s.AllowCoachMentions)
				fmt.Fprintf(w, "deep_analysis\t%t\n", s.DeepAnalysis)
				return w.Flush()
			})
		},
	}
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	var (
		enabled       bool
		frequency     string
		minConfidence float64
		coachMentions bool
		deepAnalysis  bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change insight settings",
		Long: `Change insight settings. Only the flags you pass are changed.

Examples:
  reverie settings set --frequency weekly
  reverie settings set --coach-mentions=false --min-confidence 0.7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				ctx := cmd.Context()
				s := a.ledger.Settings(ctx)
				flags := cmd.Flags()
				if flags.Changed("enabled") {
					s.Enabled = enabled
				}
				if flags.Changed("frequency") {
					s.Frequency = insights.Frequency(frequency)
				}
				if flags.Changed("min-confidence") {
					s.MinConfidence = minConfidence
				}
				if flags.Changed("coach-mentions") {
					s.AllowCoachMentions = coachMentions
				}
				if flags.Changed("deep-analysis") {
					s.DeepAnalysis = deepAnalysis
				}
				if err := a.ledger.UpdateSettings(ctx, s); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Settings updated.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "run insight analysis at all")
	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekly, or manual")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "discard candidates below this confidence")
	cmd.Flags().BoolVar(&coachMentions, "coach-mentions", true, "allow a coach to mention insights")
	cmd.Flags().BoolVar(&deepAnalysis, "deep-analysis", false, "run the optional deep analyzer")
	return cmd
}
