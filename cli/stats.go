package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/service"

	"github.com/spf13/cobra"
)

func newStatsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Journal statistics",
	}

	var month string
	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Per-month summaries of past months, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rt.data().GetEntries(rt.ctx)
			if err != nil {
				return err
			}

			var summaries []models.MonthlySummary
			if month != "" {
				m, err := time.Parse(monthLayout, month)
				if err != nil {
					return fmt.Errorf("--month must be YYYY-MM: %w", err)
				}
				summaries = []models.MonthlySummary{service.MonthSummary(entries, m.Year(), int(m.Month()))}
			} else {
				summaries = service.MonthlySummaries(entries, rt.now())
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), summaries); ok || err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No past months to summarize.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tENTRIES\tMOST FREQUENT\tAVG INTENSITY")
			for _, s := range summaries {
				fmt.Fprintf(w, "%04d-%02d\t%d\t%s\t%.1f\n", s.Year, s.Month, s.TotalEntries, s.MostFrequent, s.AvgIntensity)
			}
			return w.Flush()
		},
	}
	monthly.Flags().StringVar(&month, "month", "", "summarize a single month (YYYY-MM)")

	var from, to string
	pnl := &cobra.Command{
		Use:   "pnl",
		Short: "Profit and loss statistics by emotion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rt.data().GetEntries(rt.ctx)
			if err != nil {
				return err
			}
			if from != "" || to != "" {
				if from == "" {
					from = "0000-01-01"
				}
				if to == "" {
					to = "9999-12-31"
				}
				if err := checkRange(from, to); err != nil {
					return err
				}
				filtered := service.RangeEntries(entries, from, to)
				entries = make(map[string]models.EmotionEntry, len(filtered))
				for _, e := range filtered {
					entries[e.Date] = e
				}
			}

			stats := service.PNLStatistics(entries)
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), stats); ok || err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Days with P&L: %d\n", stats.Days)
			fmt.Fprintf(out, "Total P&L:     %s\n", stats.TotalPNL.StringFixed(2))
			fmt.Fprintf(out, "Average P&L:   %s\n", stats.AvgPNL.StringFixed(2))
			fmt.Fprintf(out, "Win rate:      %d%% (%d wins, %d losses)\n", stats.WinRate, stats.WinDays, stats.LossDays)
			fmt.Fprintf(out, "Trades:        %d\n", stats.TotalTrades)

			emotions := make([]string, 0, len(stats.AvgPNLByEmotion))
			for e := range stats.AvgPNLByEmotion {
				emotions = append(emotions, string(e))
			}
			sort.Strings(emotions)
			for _, e := range emotions {
				fmt.Fprintf(out, "  %-8s %s\n", models.EmotionType(e).Label(), stats.AvgPNLByEmotion[models.EmotionType(e)].StringFixed(2))
			}
			return nil
		},
	}
	pnl.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	pnl.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")

	cmd.AddCommand(monthly, pnl)
	return cmd
}
