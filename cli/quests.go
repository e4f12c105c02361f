package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newQuestsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quests",
		Short: "Manage quests",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List quests in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quests, err := rt.data().GetQuests(rt.ctx)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), quests); ok || err != nil {
				return err
			}
			if len(quests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No quests yet.")
				return nil
			}
			for _, q := range quests {
				mark := " "
				if q.Completed {
					mark = "x"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s\n", mark, q.ID, q.Text)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a quest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errors.New("quest text is required")
			}
			quest, err := rt.data().AddQuest(rt.ctx, text)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), quest); ok || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", quest.ID)
			return nil
		},
	}

	status := func(use, short string, completed bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				quest, err := rt.data().UpdateQuestStatus(rt.ctx, args[0], completed)
				if err != nil {
					return err
				}
				if ok, err := rt.emitJSON(cmd.OutOrStdout(), quest); ok || err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", quest.ID)
				return nil
			},
		}
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a quest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.data().DeleteQuest(rt.ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add,
		status("done", "Mark a quest completed", true),
		status("undo", "Mark a quest not completed", false),
		rm)
	return cmd
}
