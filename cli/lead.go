package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLeadCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "lead <email>",
		Short:       "Record an email address for product updates",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationPublic: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if !strings.Contains(email, "@") {
				return errors.New("a valid email address is required")
			}
			if err := rt.data().AddLead(rt.ctx, email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Thanks, %s is on the list\n", email)
			return nil
		},
	}
}
