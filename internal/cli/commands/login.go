package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookshelf-dev/bookshelf/internal/cli/views"
	"github.com/bookshelf-dev/bookshelf/internal/router"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the book catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set BOOKSHELF_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set BOOKSHELF_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, email, password string) error {
	// Environment variables are useful for scripts
	email = fromEnv(email, "BOOKSHELF_EMAIL")
	password = fromEnv(password, "BOOKSHELF_PASSWORD")

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or BOOKSHELF_EMAIL env var)")
	}

	d, err := setup(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if password == "" {
		if password, err = readPassword(cmd.ErrOrStderr(), "BOOKSHELF_PASSWORD"); err != nil {
			return err
		}
	}

	fmt.Fprintf(d.out, "Logging in to %s...\n", d.client.BaseURL())

	// The login screen prints the rejection notice itself
	view := views.NewLoginView(d.client, d.session, nil, d.out, d.logger)
	next, err := view.Submit(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if next != router.PathBookSearch {
		return errors.New("login failed")
	}

	role, err := d.session.Role(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out, "✓ Login successful!")
	fmt.Fprintf(d.out, "  Role: %s\n", role)
	return nil
}
