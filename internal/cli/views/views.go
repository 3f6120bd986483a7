// Package views implements the login, registration and catalog screens. Each
// view runs until the user picks a destination and returns that path; an
// empty path ends the app.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/session"
)

// Exit is returned by a view to end the app
const Exit = ""

// View is one screen of the app
type View interface {
	Run(ctx context.Context) (next string, err error)
}

// CredentialGateway submits login and registration payloads
type CredentialGateway interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.Result, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.Result, error)
}

// CatalogGateway is the pass-through to the catalog API
type CatalogGateway interface {
	ListBooks(ctx context.Context) ([]client.BookRecord, error)
	SearchBooks(ctx context.Context, term string) ([]client.BookRecord, error)
	CreateBook(ctx context.Context, book client.BookRecord) (*client.BookRecord, error)
	UpdateBook(ctx context.Context, id int64, book client.BookRecord) (*client.BookRecord, error)
	DeleteBook(ctx context.Context, id int64) error
}

// Session is the session store as the views use it
type Session interface {
	Role(ctx context.Context) (session.Role, error)
	SetRole(ctx context.Context, role session.Role) error
	Clear(ctx context.Context) error
	RoleForEmail(email string) session.Role
}

// notify shows a user-facing notice
func notify(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, format+"\n", args...)
}
