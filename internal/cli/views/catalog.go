package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/router"
	"github.com/bookshelf-dev/bookshelf/internal/session"
)

// DeleteConfirmation is asked before a book is deleted
const DeleteConfirmation = "Delete this book"

const (
	actionSearch = iota
	actionAdd
	actionEdit
	actionDelete
	actionRefresh
	actionLogout
	actionQuit
)

var catalogActions = []string{
	actionSearch:  "Search",
	actionAdd:     "Add book",
	actionEdit:    "Edit book",
	actionDelete:  "Delete book",
	actionRefresh: "Refresh",
	actionLogout:  "Log out",
	actionQuit:    "Quit",
}

// CatalogView lists, searches and edits books. The list it shows is always the
// result of the most recent successful fetch; mutations are followed by a
// full reload.
type CatalogView struct {
	books    CatalogGateway
	session  Session
	prompter prompt.Prompter
	out      io.Writer
	logger   zerolog.Logger

	list []client.BookRecord
	role session.Role
}

// NewCatalogView creates the catalog screen
func NewCatalogView(books CatalogGateway, sess Session, p prompt.Prompter, out io.Writer, logger zerolog.Logger) *CatalogView {
	return &CatalogView{books: books, session: sess, prompter: p, out: out, logger: logger}
}

// Books returns the currently displayed list
func (v *CatalogView) Books() []client.BookRecord {
	return v.list
}

func (v *CatalogView) Run(ctx context.Context) (string, error) {
	role, err := v.session.Role(ctx)
	if err != nil {
		v.logger.Debug().Err(err).Msg("Failed to read session role")
	}
	v.role = role

	if err := v.Load(ctx); err != nil {
		notify(v.out, "%v", err)
	}
	v.Render()

	for {
		choice, err := v.prompter.Select(fmt.Sprintf("Books (%s)", v.role), catalogActions)
		if err != nil {
			return Exit, err
		}

		switch choice {
		case actionSearch:
			err = v.runSearch(ctx)
		case actionAdd:
			err = v.runSave(ctx, nil)
		case actionEdit:
			err = v.runEdit(ctx)
		case actionDelete:
			err = v.runDelete(ctx)
		case actionRefresh:
			if loadErr := v.Load(ctx); loadErr != nil {
				notify(v.out, "%v", loadErr)
			}
		case actionLogout:
			return v.Logout(ctx)
		case actionQuit:
			return Exit, nil
		}
		if err != nil {
			return Exit, err
		}
		v.Render()
	}
}

// Load replaces the list with the full catalog
func (v *CatalogView) Load(ctx context.Context) error {
	books, err := v.books.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	v.list = books
	return nil
}

// Search replaces the list with the books matching term; a blank term loads everything
func (v *CatalogView) Search(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return v.Load(ctx)
	}
	books, err := v.books.SearchBooks(ctx, term)
	if err != nil {
		return fmt.Errorf("failed to search books: %w", err)
	}
	v.list = books
	return nil
}

// Save creates book, or updates it when id is non-nil, then reloads the list.
// On failure the list is left as it was.
func (v *CatalogView) Save(ctx context.Context, id *int64, book client.BookRecord) error {
	var err error
	if id != nil {
		_, err = v.books.UpdateBook(ctx, *id, book)
	} else {
		_, err = v.books.CreateBook(ctx, book)
	}
	if err != nil {
		return err
	}
	return v.Load(ctx)
}

// Delete removes book id, then reloads the list
func (v *CatalogView) Delete(ctx context.Context, id int64) error {
	if err := v.books.DeleteBook(ctx, id); err != nil {
		return err
	}
	return v.Load(ctx)
}

// Logout clears the session and sends the user back to login
func (v *CatalogView) Logout(ctx context.Context) (string, error) {
	if err := v.session.Clear(ctx); err != nil {
		return Exit, fmt.Errorf("failed to log out: %w", err)
	}
	v.list = nil
	v.role = session.RoleNone
	return router.PathLogin, nil
}

// Render prints the list as a table
func (v *CatalogView) Render() {
	RenderBooks(v.out, v.list)
}

// RenderBooks prints books as a table
func RenderBooks(out io.Writer, books []client.BookRecord) {
	if len(books) == 0 {
		fmt.Fprintln(out, "No books found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPRICE\tSTOCK")
	fmt.Fprintln(w, "──\t─────\t──────\t─────\t─────")
	for _, b := range books {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\n", b.ID, b.Title, b.Author, b.Price, b.Stock)
	}
	w.Flush()
}

func (v *CatalogView) runSearch(ctx context.Context) error {
	term, err := v.prompter.Input("Search title or author", prompt.InputOptions{})
	if err != nil {
		return err
	}
	if err := v.Search(ctx, term); err != nil {
		notify(v.out, "%v", err)
	}
	return nil
}

func (v *CatalogView) runEdit(ctx context.Context) error {
	book, ok, err := v.pickBook("Edit which book?")
	if err != nil || !ok {
		return err
	}
	return v.runSave(ctx, &book)
}

// runSave prompts for the book fields, prefilled from existing when editing
func (v *CatalogView) runSave(ctx context.Context, existing *client.BookRecord) error {
	var draft client.BookRecord
	var id *int64
	if existing != nil {
		draft = *existing
		id = &existing.ID
	}

	book, err := v.promptBook(draft)
	if err != nil {
		return err
	}

	if err := v.Save(ctx, id, book); err != nil {
		notify(v.out, "%s", describeError(err))
	}
	return nil
}

func (v *CatalogView) runDelete(ctx context.Context) error {
	book, ok, err := v.pickBook("Delete which book?")
	if err != nil || !ok {
		return err
	}

	confirmed, err := v.prompter.Confirm(DeleteConfirmation)
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	if err := v.Delete(ctx, book.ID); err != nil {
		notify(v.out, "%s", describeError(err))
	}
	return nil
}

func (v *CatalogView) pickBook(label string) (client.BookRecord, bool, error) {
	if len(v.list) == 0 {
		notify(v.out, "No books to choose from.")
		return client.BookRecord{}, false, nil
	}

	labels := make([]string, len(v.list))
	for i, b := range v.list {
		labels[i] = fmt.Sprintf("%s by %s (#%d)", b.Title, b.Author, b.ID)
	}

	index, err := v.prompter.Select(label, labels)
	if err != nil {
		return client.BookRecord{}, false, err
	}
	return v.list[index], true, nil
}

func (v *CatalogView) promptBook(draft client.BookRecord) (client.BookRecord, error) {
	var err error
	book := client.BookRecord{}

	if book.Title, err = v.prompter.Input("Title", prompt.InputOptions{Default: draft.Title}); err != nil {
		return book, err
	}
	if book.Author, err = v.prompter.Input("Author", prompt.InputOptions{Default: draft.Author}); err != nil {
		return book, err
	}

	priceDefault := ""
	if draft.Price != 0 {
		priceDefault = strconv.FormatFloat(draft.Price, 'f', -1, 64)
	}
	price, err := v.prompter.Input("Price", prompt.InputOptions{Default: priceDefault, Validate: validateFloat})
	if err != nil {
		return book, err
	}
	if book.Price, err = strconv.ParseFloat(strings.TrimSpace(price), 64); err != nil {
		return book, fmt.Errorf("invalid price: %w", err)
	}

	stock, err := v.prompter.Input("Stock", prompt.InputOptions{Default: strconv.Itoa(draft.Stock), Validate: validateInt})
	if err != nil {
		return book, err
	}
	if book.Stock, err = strconv.Atoi(strings.TrimSpace(stock)); err != nil {
		return book, fmt.Errorf("invalid stock: %w", err)
	}

	return book, nil
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

// describeError turns a gateway error into a notice
func describeError(err error) string {
	if errors.Is(err, client.ErrValidation) {
		return validationMessage(err)
	}
	return err.Error()
}
