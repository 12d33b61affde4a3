package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Atharva-Kanherkar/reverie/internal/insights"
)

func newInsightsCmd(opts *rootOptions) *cobra.Command {
	var (
		unacked bool
		coach   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:     "insights",
		Aliases: []string{"ls"},
		Short:   "List discovered insights",
		Long: `List discovered insights, most recently updated first.

Examples:
  # Everything
  reverie insights

  # Only insights you have not acknowledged
  reverie insights --unacked

  # What a coach may bring up, strongest first
  reverie insights --coach`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unacked && coach {
				return fmt.Errorf("--unacked and --coach cannot be combined")
			}
			return withApp(opts, func(a *app) error {
				ctx := cmd.Context()
				var list []insights.Insight
				switch {
				case unacked:
					list = a.ledger.Unacknowledged(ctx)
				case coach:
					list = a.ledger.CoachEligible(ctx)
				default:
					list = a.ledger.All(ctx)
				}

				if opts.jsonOutput {
					if list == nil {
						list = []insights.Insight{}
					}
					return writeJSON(cmd.OutOrStdout(), list)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No insights yet.")
					return nil
				}
				if verbose {
					printInsightDetails(cmd.OutOrStdout(), list)
					return nil
				}
				return printInsightTable(cmd.OutOrStdout(), list)
			})
		},
	}

	cmd.Flags().BoolVar(&unacked, "unacked", false, "only insights not yet acknowledged")
	cmd.Flags().BoolVar(&coach, "coach", false, "only insights a coach may mention")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show descriptions and evidence")
	return cmd
}

func printInsightTable(out io.Writer, list []insights.Insight) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSTRENGTH\tCONFIDENCE\tSEEN\tTITLE")
	for _, ins := range list {
		flag := ""
		if ins.IsNew {
			flag = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%dx\t%s%s\n",
			shortID(ins.ID), ins.Category, ins.Strength, ins.Confidence,
			ins.ReinforcementCount, ins.Title, flag)
	}
	return w.Flush()
}

func printInsightDetails(out io.Writer, list []insights.Insight) {
	for i, ins := range list {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %s\n", ins.ID, ins.Title)
		fmt.Fprintf(out, "  %s | %s | %s | confidence %.2f | seen in %d analyses\n",
			ins.Category, ins.Sentiment, ins.Strength, ins.Confidence, ins.ReinforcementCount)
		fmt.Fprintf(out, "  %s\n", ins.Description)
		for _, e := range ins.DisplayEvidence() {
			fmt.Fprintf(out, "    %s  %s\n", e.Date, e.Description)
		}
		if ins.UserReaction != "" {
			fmt.Fprintf(out, "  reaction: %s", ins.UserReaction)
			if ins.UserNotes != "" {
				fmt.Fprintf(out, " (%s)", ins.UserNotes)
			}
			fmt.Fprintln(out)
		}
	}
}

// unknownID turns a not-found error from the ledger into a hint to list ids.
func unknownID(id string, err error) error {
	if insights.IsNotFound(err) {
		return fmt.Errorf("no insight with id %q; run 'reverie insights' to list ids: %w", id, err)
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID expands a unique ID prefix as printed by the list table.
func resolveID(list []insights.Insight, prefix string) (string, error) {
	var match string
	for _, ins := range list {
		if ins.ID == prefix {
			return ins.ID, nil
		}
		if strings.HasPrefix(ins.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = ins.ID
		}
	}
	if match == "" {
		return prefix, nil
	}
	return match, nil
}

func newAckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ack <id>...",
		Short: "Acknowledge insights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				ctx := cmd.Context()
				all := a.ledger.All(ctx)
				for _, arg := range args {
					id, err := resolveID(all, arg)
					if err != nil {
						return err
					}
					if err := a.ledger.Acknowledge(ctx, id); err != nil {
						return unknownID(id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Acknowledged %s\n", shortID(id))
				}
				return nil
			})
		},
	}
}

func newReactCmd(opts *rootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "react <id> <helpful|not_helpful|inaccurate>",
		Short: "Record your reaction to an insight",
		Long: `Record whether an insight was helpful. Reacting also acknowledges it.

Examples:
  reverie react 3f2a9c1b helpful
  reverie react 3f2a9c1b inaccurate --notes "I was travelling that week"`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{insights.ReactionHelpful, insights.ReactionNotHelpful, insights.ReactionInaccurate}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				ctx := cmd.Context()
				id, err := resolveID(a.ledger.All(ctx), args[0])
				if err != nil {
					return err
				}
				if err := a.ledger.RecordReaction(ctx, id, args[1], notes); err != nil {
					return unknownID(id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n", args[1], shortID(id))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "optional notes")
	return cmd
}

func newMentionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mention <id>",
		Short: "Mark an insight as mentioned by a coach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				ctx := cmd.Context()
				id, err := resolveID(a.ledger.All(ctx), args[0])
				if err != nil {
					return err
				}
				if err := a.ledger.MarkMentioned(ctx, id); err != nil {
					return unknownID(id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as mentioned\n", shortID(id))
				return nil
			})
		},
	}
}

func newContextCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print insight context for a conversational coach",
		Long: `Print the strongest coach-eligible insights as prompt lines. Nothing is
printed when coach mentions are turned off in settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				n := limit
				if !cmd.Flags().Changed("limit") {
					n = a.cfg.Insights.ContextLimit
				}
				text := a.ledger.CoachContext(cmd.Context(), n)
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"context": text})
				}
				if text != "" {
					fmt.Fprintln(cmd.OutOrStdout(), text)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", insights.DefaultContextLimit, "maximum number of insights")
	return cmd
}
