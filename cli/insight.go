package cli

import (
	"fmt"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/service"

	"github.com/spf13/cobra"
)

const monthLayout = "2006-01"

func newInsightCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "insight <date>",
		Short: "Ask the AI companion to reflect on one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rt.data().GetEntries(rt.ctx)
			if err != nil {
				return err
			}
			entry, ok := entries[args[0]]
			if !ok {
				return fmt.Errorf("no entry for %s: %w", args[0], service.ErrNotFound)
			}

			text, err := rt.app.Insights.EntryInsight(rt.ctx, entry)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), map[string]string{"date": entry.Date, "insight": text}); ok || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newTrendsCommand(rt *runtime) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Summarize the emotional trends of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := rt.now()
			if month != "" {
				parsed, err := time.Parse(monthLayout, month)
				if err != nil {
					return fmt.Errorf("--month must be YYYY-MM: %w", err)
				}
				m = parsed
			}

			entries, err := rt.data().GetEntries(rt.ctx)
			if err != nil {
				return err
			}
			text, err := rt.app.Insights.TrendsSummary(rt.ctx, service.MonthEntries(entries, m.Year(), int(m.Month())))
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), map[string]string{"month": m.Format(monthLayout), "summary": text}); ok || err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to summarize (YYYY-MM, default current)")
	return cmd
}

func newReportCommand(rt *runtime) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a wellness report for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkRange(from, to); err != nil {
				return err
			}
			entries, err := rt.data().GetEntries(rt.ctx)
			if err != nil {
				return err
			}
			report, err := rt.app.Insights.ReportAnalysis(rt.ctx, service.RangeEntries(entries, from, to), from, to)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), report); ok || err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report %s to %s\n\n", from, to)
			fmt.Fprintf(out, "Summary:\n%s\n\n", report.Summary)
			fmt.Fprintf(out, "Emotion frequency:\n%s\n\n", report.EmotionFrequency)
			fmt.Fprintf(out, "Intensity trend:\n%s\n\n", report.IntensityTrend)
			fmt.Fprintf(out, "Insights:\n%s\n", report.Insights)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func checkRange(from, to string) error {
	start, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
	}
	end, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return fmt.Errorf("--to must be YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return nil
}
