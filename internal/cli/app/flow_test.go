package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/bookshelf-dev/bookshelf/internal/apitest"
	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/cli/views"
	"github.com/bookshelf-dev/bookshelf/internal/gate"
	"github.com/bookshelf-dev/bookshelf/internal/router"
	"github.com/bookshelf-dev/bookshelf/internal/session"
	"github.com/bookshelf-dev/bookshelf/internal/storage"
)

// tape answers prompts from a fixed script
type tape struct {
	answers []any
	labels  []string
}

func (t *tape) next(label string) (any, error) {
	t.labels = append(t.labels, label)
	if len(t.answers) == 0 {
		return nil, prompt.ErrAborted
	}
	a := t.answers[0]
	t.answers = t.answers[1:]
	return a, nil
}

func (t *tape) Input(label string, _ prompt.InputOptions) (string, error) {
	a, err := t.next(label)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (t *tape) Select(label string, _ []string) (int, error) {
	a, err := t.next(label)
	if err != nil {
		return -1, err
	}
	return a.(int), nil
}

func (t *tape) Confirm(label string) (bool, error) {
	a, err := t.next(label)
	if err != nil {
		return false, err
	}
	return a.(bool), nil
}

func TestRun_LoginCreateLogout(t *testing.T) {
	ctx := context.Background()
	api := apitest.NewServer(t)

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sess := session.NewStore(store, "")
	require.NoError(t, sess.Init(ctx))
	nav := router.New(router.DefaultRoutes(), gate.New(sess, zerolog.Nop()), zerolog.Nop())
	c := client.New(api.URL, zerolog.Nop())

	p := &tape{answers: []any{
		0, apitest.AdminEmail, apitest.AdminPassword, // login
		1, "A", "B", "1", "1", // add book
		5, // log out
		2, // quit from login
	}}
	var out bytes.Buffer

	a := New(nav, map[string]views.View{
		router.PathLogin:      views.NewLoginView(c, sess, p, &out, zerolog.Nop()),
		router.PathRegister:   views.NewRegisterView(c, p, &out, zerolog.Nop()),
		router.PathBookSearch: views.NewCatalogView(c, sess, p, &out, zerolog.Nop()),
	}, zerolog.Nop())

	require.NoError(t, a.Run(ctx, router.PathBookSearch))

	assert.Equal(t, []string{
		"Login", "Email", "Password",
		"Books (admin)", "Title", "Author", "Price", "Stock",
		"Books (admin)",
		"Login",
	}, p.labels)

	books := api.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "A", books[0].Title)
	assert.Contains(t, out.String(), "No books found.")

	role, err := sess.Role(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.RoleNone, role)
	assert.Equal(t, router.PathLogin, nav.Navigate(ctx, router.PathBookSearch).Destination)
}

func TestRun_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.db")

	store, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, session.NewStore(store, "").SetRole(ctx, session.RoleUser))
	require.NoError(t, store.Close())

	store, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sess := session.NewStore(store, "")
	nav := router.New(router.DefaultRoutes(), gate.New(sess, zerolog.Nop()), zerolog.Nop())
	got := nav.Navigate(ctx, router.PathBookSearch)
	assert.Equal(t, router.PathBookSearch, got.Destination)
	assert.False(t, got.Denied)
}

func TestRun_UnreadableSessionRedirectsToLogin(t *testing.T) {
	ctx := context.Background()
	keyring.MockInitWithError(errors.New("storage disabled"))
	t.Cleanup(keyring.MockInit)

	sess := session.NewStore(storage.NewKeyring("bookshelf-test"), "")
	assert.Error(t, sess.Init(ctx))

	nav := router.New(router.DefaultRoutes(), gate.New(sess, zerolog.Nop()), zerolog.Nop())
	got := nav.Navigate(ctx, router.PathBookSearch)
	assert.Equal(t, router.PathLogin, got.Destination)
	assert.True(t, got.Denied)

	api := apitest.NewServer(t)
	c := client.New(api.URL, zerolog.Nop())
	p := &tape{answers: []any{2}} // quit from login
	var out bytes.Buffer

	a := New(nav, map[string]views.View{
		router.PathLogin:      views.NewLoginView(c, sess, p, &out, zerolog.Nop()),
		router.PathRegister:   views.NewRegisterView(c, p, &out, zerolog.Nop()),
		router.PathBookSearch: views.NewCatalogView(c, sess, p, &out, zerolog.Nop()),
	}, zerolog.Nop())

	require.NoError(t, a.Run(ctx, router.PathBookSearch))
	assert.Equal(t, []string{"Login"}, p.labels)
	assert.Empty(t, api.RequestIDs())
}
