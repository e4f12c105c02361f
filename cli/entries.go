package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"deltajournal-backend/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newEntriesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List, save, and delete journal entries",
	}

	var month string
	list := &cobra.Command{
		Use:   "list",
		Short: "List entries, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rt.data().GetEntries(rt.ctx)
			if err != nil {
				return err
			}

			dates := make([]string, 0, len(entries))
			for date := range entries {
				if month == "" || strings.HasPrefix(date, month+"-") {
					dates = append(dates, date)
				}
			}
			sort.Strings(dates)

			selected := make([]models.EmotionEntry, 0, len(dates))
			for _, d := range dates {
				selected = append(selected, entries[d])
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), selected); ok || err != nil {
				return err
			}

			if len(selected) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tEMOTION\tINTENSITY\tPNL\tNOTES")
			for _, e := range selected {
				pnl := "-"
				if e.PnL != nil {
					pnl = e.PnL.StringFixed(2)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.Date, e.Emotion.Label(), e.Intensity, pnl, e.NotesOr(""))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&month, "month", "", "only entries in this month (YYYY-MM)")

	var (
		emotion   string
		intensity int
		notes     string
		pnl       string
	)
	save := &cobra.Command{
		Use:   "save <date>",
		Short: "Create or replace the entry for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := models.EmotionEntry{
				Date:      args[0],
				Emotion:   models.EmotionType(strings.ToLower(emotion)),
				Intensity: intensity,
			}
			if cmd.Flags().Changed("notes") {
				entry.Notes = &notes
			}
			if pnl != "" {
				d, err := decimal.NewFromString(pnl)
				if err != nil {
					return fmt.Errorf("invalid --pnl %q: %w", pnl, err)
				}
				entry.PnL = &d
			}
			if err := entry.Validate(); err != nil {
				return err
			}

			saved, err := rt.data().SaveEntry(rt.ctx, entry)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), saved); ok || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d)\n", saved.Date, saved.Emotion.Label(), saved.Intensity)
			return nil
		},
	}
	save.Flags().StringVar(&emotion, "emotion", "", "one of happy, calm, anxious, sad, angry")
	save.Flags().IntVar(&intensity, "intensity", 5, "intensity from 1 to 10")
	save.Flags().StringVar(&notes, "notes", "", "free-form notes")
	save.Flags().StringVar(&pnl, "pnl", "", "daily profit and loss")
	_ = save.MarkFlagRequired("emotion")

	del := &cobra.Command{
		Use:   "delete <date>",
		Short: "Delete the entry for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.Parse(models.DateLayout, args[0]); err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD, got %q", args[0])
			}
			if err := rt.data().DeleteEntry(rt.ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, save, del)
	return cmd
}
