package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the journal profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := rt.data().GetProfile(rt.ctx)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), profile); ok || err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:    %s\n", profile.Name)
			fmt.Fprintf(out, "Alias:   %s\n", profile.Alias)
			if profile.JournalPurpose != nil {
				fmt.Fprintf(out, "Purpose: %s\n", *profile.JournalPurpose)
			}
			return nil
		},
	}

	var name, alias, purpose, picture string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; unspecified fields keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := rt.data().GetProfile(rt.ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				profile.Name = name
			}
			if flags.Changed("alias") {
				profile.Alias = alias
			}
			if flags.Changed("purpose") {
				profile.JournalPurpose = &purpose
			}
			if flags.Changed("picture") {
				profile.Picture = &picture
			}

			saved, err := rt.data().SaveProfile(rt.ctx, *profile)
			if err != nil {
				return err
			}
			if ok, err := rt.emitJSON(cmd.OutOrStdout(), saved); ok || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile saved for %s\n", saved.Name)
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&alias, "alias", "", "alias shown in the sidebar")
	set.Flags().StringVar(&purpose, "purpose", "", "why you keep this journal")
	set.Flags().StringVar(&picture, "picture", "", "profile picture URL or data URI")

	cmd.AddCommand(show, set)
	return cmd
}
