package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.session.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}
			fmt.Fprintln(d.out, "✓ Logged out")
			return nil
		},
	}
}
