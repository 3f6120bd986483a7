package commands

import (
	"github.com/spf13/cobra"

	"github.com/bookshelf-dev/bookshelf/internal/cli/app"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/cli/views"
	"github.com/bookshelf-dev/bookshelf/internal/router"
)

// NewOpenCmd creates the open command, the interactive client
func NewOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [path]",
		Short: "Open the interactive catalog",
		Long: `Open the interactive catalog at path (default "/").

Known paths are /login, /register and /book-search. The book search view
requires a session; without one you land on /login.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := router.PathRoot
			if len(args) == 1 {
				start = args[0]
			}
			return runOpen(cmd, start, prompt.NewTerminal())
		},
	}

	return cmd
}

func runOpen(cmd *cobra.Command, start string, p prompt.Prompter) error {
	d, err := setup(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	a := app.New(d.router, map[string]views.View{
		router.PathLogin:      views.NewLoginView(d.client, d.session, p, d.out, d.logger),
		router.PathRegister:   views.NewRegisterView(d.client, p, d.out, d.logger),
		router.PathBookSearch: views.NewCatalogView(d.client, d.session, p, d.out, d.logger),
	}, d.logger)

	return a.Run(cmd.Context(), start)
}
