package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/cli/views"
)

// NewBooksCmd creates the books command and its subcommands. All of them need
// a session, as the book search view does.
func NewBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Search and edit the book catalog",
	}

	cmd.AddCommand(newBooksListCmd())
	cmd.AddCommand(newBooksSearchCmd())
	cmd.AddCommand(newBooksAddCmd())
	cmd.AddCommand(newBooksUpdateCmd())
	cmd.AddCommand(newBooksDeleteCmd())

	return cmd
}

// openCatalog wires the dependencies and checks the session
func openCatalog(cmd *cobra.Command) (*deps, *views.CatalogView, error) {
	d, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := d.requireCatalog(cmd.Context()); err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, views.NewCatalogView(d.client, d.session, nil, d.out, d.logger), nil
}

func newBooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, v, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			v.Render()
			return nil
		},
	}
}

func newBooksSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search books by title or author",
		Long:  "Search books by title or author. A blank term lists every book.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, v, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			if err := v.Search(cmd.Context(), term); err != nil {
				return err
			}
			v.Render()
			return nil
		},
	}
}

// bookFlags are the editable fields of a book
type bookFlags struct {
	title  string
	author string
	price  float64
	stock  int
}

func (f *bookFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Book title")
	cmd.Flags().StringVar(&f.author, "author", "", "Book author")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Price (at least 0.01)")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "Copies in stock")
}

// apply overlays the flags that were set on book
func (f *bookFlags) apply(cmd *cobra.Command, book client.BookRecord) client.BookRecord {
	if cmd.Flags().Changed("title") {
		book.Title = f.title
	}
	if cmd.Flags().Changed("author") {
		book.Author = f.author
	}
	if cmd.Flags().Changed("price") {
		book.Price = f.price
	}
	if cmd.Flags().Changed("stock") {
		book.Stock = f.stock
	}
	return book
}

func newBooksAddCmd() *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, v, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			book := flags.apply(cmd, client.BookRecord{})
			if err := v.Save(cmd.Context(), nil, book); err != nil {
				return fmt.Errorf("failed to add book: %w", err)
			}

			fmt.Fprintf(d.out, "✓ Added %q\n", book.Title)
			v.Render()
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func newBooksUpdateCmd() *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a book",
		Long:  "Update a book. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}

			d, v, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := v.Load(cmd.Context()); err != nil {
				return err
			}

			// Find the book by id
			var existing *client.BookRecord
			for i := range v.Books() {
				if v.Books()[i].ID == id {
					existing = &v.Books()[i]
					break
				}
			}
			if existing == nil {
				return fmt.Errorf("book %d not found", id)
			}

			book := flags.apply(cmd, *existing)
			if err := v.Save(cmd.Context(), &id, book); err != nil {
				return fmt.Errorf("failed to update book: %w", err)
			}

			fmt.Fprintf(d.out, "✓ Updated book %d\n", id)
			v.Render()
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func newBooksDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !stdinIsTerminal() {
					return errors.New("refusing to delete without confirmation in non-interactive mode (use --yes)")
				}
				confirmed, err := prompt.NewTerminal().Confirm(views.DeleteConfirmation)
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			d, v, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := v.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete book: %w", err)
			}

			fmt.Fprintf(d.out, "✓ Deleted book %d\n", id)
			v.Render()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func parseBookID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", arg)
	}
	return id, nil
}
