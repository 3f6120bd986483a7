package views

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf-dev/bookshelf/internal/apitest"
	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/gate"
	"github.com/bookshelf-dev/bookshelf/internal/router"
	"github.com/bookshelf-dev/bookshelf/internal/session"
)

func TestCatalogView_CreateThenReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := NewCatalogView(f.client, f.session, &fakePrompter{}, f.out, zerolog.Nop())

	require.NoError(t, v.Load(ctx))
	assert.Empty(t, v.Books())

	require.NoError(t, v.Save(ctx, nil, client.BookRecord{Title: "A", Author: "B", Price: 1, Stock: 1}))
	require.Len(t, v.Books(), 1)
	assert.Equal(t, "A", v.Books()[0].Title)
	assert.Equal(t, "B", v.Books()[0].Author)
}

func TestCatalogView_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.api.AddBook(apitest.Book{Title: "Old", Author: "X", Price: 5, Stock: 2})
	v := NewCatalogView(f.client, f.session, &fakePrompter{}, f.out, zerolog.Nop())

	require.NoError(t, v.Save(ctx, &book.ID, client.BookRecord{Title: "New", Author: "X", Price: 6, Stock: 2}))
	require.Len(t, v.Books(), 1)
	assert.Equal(t, "New", v.Books()[0].Title)

	require.NoError(t, v.Delete(ctx, book.ID))
	assert.Empty(t, v.Books())
}

func TestCatalogView_FailedMutationKeepsList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.api.AddBook(apitest.Book{Title: "Kept", Author: "X", Price: 5, Stock: 2})
	v := NewCatalogView(f.client, f.session, &fakePrompter{}, f.out, zerolog.Nop())
	require.NoError(t, v.Load(ctx))

	f.api.AddBook(apitest.Book{Title: "Added elsewhere", Author: "Y", Price: 1, Stock: 1})

	missing := int64(999)
	err := v.Save(ctx, &missing, client.BookRecord{Title: "T", Author: "A", Price: 1})
	require.Error(t, err)

	require.Len(t, v.Books(), 1, "no refresh after a failed mutation")
	assert.Equal(t, "Kept", v.Books()[0].Title)
}

func TestCatalogView_Search(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.api.AddBook(apitest.Book{Title: "The Hobbit", Author: "Tolkien", Price: 10, Stock: 3})
	f.api.AddBook(apitest.Book{Title: "Dune", Author: "Herbert", Price: 12, Stock: 1})
	v := NewCatalogView(f.client, f.session, &fakePrompter{}, f.out, zerolog.Nop())

	require.NoError(t, v.Search(ctx, "Herbert"))
	require.Len(t, v.Books(), 1)
	assert.Equal(t, "Dune", v.Books()[0].Title)

	require.NoError(t, v.Search(ctx, "   "))
	assert.Len(t, v.Books(), 2)
}

func TestCatalogView_Logout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.session.SetRole(ctx, session.RoleAdmin))
	v := NewCatalogView(f.client, f.session, &fakePrompter{}, f.out, zerolog.Nop())

	next, err := v.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, router.PathLogin, next)
	assert.Equal(t, session.RoleNone, f.role(t))
	assert.Equal(t, gate.RedirectToLogin, f.gate.Evaluate(ctx, router.PathBookSearch))
}

func TestCatalogView_RunInteractive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.session.SetRole(ctx, session.RoleUser))
	f.api.AddBook(apitest.Book{Title: "Doomed", Author: "Z", Price: 1, Stock: 1})

	p := &fakePrompter{
		selects: []int{
			actionAdd,
			actionDelete, 0, // pick "Doomed"
			actionLogout,
		},
		inputs:   []string{"A", "B", "1", "1"},
		confirms: []bool{true},
	}
	v := NewCatalogView(f.client, f.session, p, f.out, zerolog.Nop())

	next, err := v.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, router.PathLogin, next)

	books := f.api.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "A", books[0].Title)
	assert.Contains(t, p.labels, DeleteConfirmation)
	assert.Contains(t, p.labels, "Books (user)")
	assert.Equal(t, session.RoleNone, f.role(t))
}

func TestCatalogView_DeleteDeclined(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.api.AddBook(apitest.Book{Title: "Safe", Author: "Z", Price: 1, Stock: 1})

	p := &fakePrompter{selects: []int{actionDelete, 0, actionQuit}, confirms: []bool{false}}
	v := NewCatalogView(f.client, f.session, p, f.out, zerolog.Nop())

	next, err := v.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Exit, next)
	assert.Len(t, f.api.Books(), 1)
}

func TestCatalogView_InvalidBookShowsNotice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := &fakePrompter{selects: []int{actionAdd, actionQuit}, inputs: []string{"", "B", "1", "1"}}
	v := NewCatalogView(f.client, f.session, p, f.out, zerolog.Nop())

	_, err := v.Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "title is required")
	assert.Empty(t, f.api.Books())
}

type failingCatalog struct{ CatalogGateway }

func (failingCatalog) ListBooks(context.Context) ([]client.BookRecord, error) {
	return nil, errors.New("api down")
}

func TestCatalogView_LoadFailureIsANotice(t *testing.T) {
	f := newFixture(t)
	p := &fakePrompter{selects: []int{actionQuit}}
	v := NewCatalogView(failingCatalog{}, f.session, p, f.out, zerolog.Nop())

	next, err := v.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Exit, next)
	assert.Contains(t, f.out.String(), "failed to load books: api down")
}

func TestRenderBooks(t *testing.T) {
	var out bytes.Buffer
	RenderBooks(&out, nil)
	assert.Equal(t, "No books found.\n", out.String())

	out.Reset()
	RenderBooks(&out, []client.BookRecord{{ID: 1, Title: "Dune", Author: "Herbert", Price: 9.5, Stock: 2}})
	assert.Contains(t, out.String(), "TITLE")
	assert.Contains(t, out.String(), "Dune")
	assert.Contains(t, out.String(), "9.50")
}
