package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookshelf-dev/bookshelf/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Bookshelf - a terminal client for the book catalog",
	Long: `Bookshelf CLI - Log in and search or edit the book catalog.

Run 'bookshelf open' for the interactive client, or use the login, books and
logout commands from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookshelf version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewOpenCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewBooksCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
