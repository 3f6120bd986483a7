package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/views"
	"github.com/bookshelf-dev/bookshelf/internal/router"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a catalog account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, req)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (or set BOOKSHELF_EMAIL)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (or set BOOKSHELF_PASSWORD, will prompt if not provided)")

	return cmd
}

func runRegister(cmd *cobra.Command, req client.RegisterRequest) error {
	req.Email = fromEnv(req.Email, "BOOKSHELF_EMAIL")
	req.Password = fromEnv(req.Password, "BOOKSHELF_PASSWORD")

	if req.Username == "" {
		return fmt.Errorf("username is required (use --username flag)")
	}
	if req.Email == "" {
		return fmt.Errorf("email is required (use --email flag or BOOKSHELF_EMAIL env var)")
	}

	d, err := setup(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if req.Password == "" {
		if req.Password, err = readPassword(cmd.ErrOrStderr(), "BOOKSHELF_PASSWORD"); err != nil {
			return err
		}
	}

	view := views.NewRegisterView(d.client, nil, d.out, d.logger)
	if next := view.Submit(cmd.Context(), req); next != router.PathLogin {
		return errors.New("registration failed")
	}

	fmt.Fprintln(d.out, "Log in with: bookshelf login --email", req.Email)
	return nil
}
