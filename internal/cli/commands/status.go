package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bookshelf-dev/bookshelf/internal/router"
	"github.com/bookshelf-dev/bookshelf/internal/session"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session role and which views it can reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			role, err := d.session.Role(cmd.Context())
			if err != nil {
				d.logger.Debug().Err(err).Msg("Failed to read session role")
				role = session.RoleNone
			}

			w := tabwriter.NewWriter(d.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "API:\t%s\n", d.client.BaseURL())
			fmt.Fprintf(w, "Storage:\t%s\n", d.cfg.Storage.Backend)
			fmt.Fprintf(w, "Role:\t%s\n", role)
			fmt.Fprintf(w, "%s:\t%s\n", router.PathBookSearch, d.gate.Evaluate(cmd.Context(), router.PathBookSearch))
			return w.Flush()
		},
	}
}
