package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import source records from YAML or JSON files",
		Long: `Import journal logs, calendar events, contact interactions, location,
screen time, health, and weather records. Records are keyed, so importing
the same file twice does not duplicate them.

Examples:
  reverie import export.yaml
  reverie import health.json calendar.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					b, err := sources.ReadBundleFile(path)
					if err != nil {
						return err
					}
					if b.Empty() {
						fmt.Fprintf(out, "Skipped %s: no records\n", path)
						continue
					}
					if err := a.store.SaveBundle(cmd.Context(), b); err != nil {
						return fmt.Errorf("failed to import %s: %w", path, err)
					}
					a.logger.Info("imported bundle", zap.String("path", path), zap.Int("records", b.Count()))
					fmt.Fprintf(out, "Imported %d records from %s: %d logs, %d events, %d contacts, %d locations, %d screen time, %d health, %d weather\n",
						b.Count(), path, len(b.Logs), len(b.Events), len(b.Contacts), len(b.Locations),
						len(b.ScreenTime), len(b.Health), len(b.Weather))
				}
				return nil
			})
		},
	}
}

// statsOutput is the JSON shape of the stats command.
type statsOutput struct {
	Database     string           `json:"database"`
	DatabaseSize int64            `json:"database_size"`
	Records      map[string]int64 `json:"records"`
	Insights     int              `json:"insights"`
	LastAnalysis *time.Time       `json:"last_analysis,omitempty"`
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				ctx := cmd.Context()
				stats, err := a.store.Stats(ctx)
				if err != nil {
					return err
				}
				last, err := a.store.LastAnalysis(ctx)
				if err != nil {
					return err
				}

				if opts.jsonOutput {
					res := statsOutput{
						Database:     a.store.Path(),
						DatabaseSize: stats.DatabaseSize,
						Records:      stats.ByTable,
						Insights:     stats.Insights,
					}
					if !last.IsZero() {
						res.LastAnalysis = &last
					}
					return writeJSON(cmd.OutOrStdout(), res)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s (%s)\n", a.store.Path(), formatBytes(stats.DatabaseSize))
				tables := make([]string, 0, len(stats.ByTable))
				for t := range stats.ByTable {
					tables = append(tables, t)
				}
				sort.Strings(tables)

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, t := range tables {
					fmt.Fprintf(w, "  %s\t%d\n", t, stats.ByTable[t])
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Insights: %d\n", stats.Insights)
				if last.IsZero() {
					fmt.Fprintln(out, "Last analysis: never")
				} else {
					fmt.Fprintf(out, "Last analysis: %s\n", last.In(time.Local).Format(time.RFC1123))
				}
				return nil
			})
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
