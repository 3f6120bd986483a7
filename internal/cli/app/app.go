// Package app runs the interactive client: navigate, show the destination's
// view, follow the path the view returns.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/cli/views"
	"github.com/bookshelf-dev/bookshelf/internal/router"
)

// Navigator resolves paths to destinations
type Navigator interface {
	Navigate(ctx context.Context, path string) router.Navigation
}

// App binds destinations to views
type App struct {
	nav    Navigator
	views  map[string]views.View
	logger zerolog.Logger
}

// New creates an app; views is keyed by destination path
func New(nav Navigator, v map[string]views.View, logger zerolog.Logger) *App {
	return &App{nav: nav, views: v, logger: logger}
}

// Run navigates to start and keeps going until a view exits, the user aborts
// a prompt, or ctx is cancelled.
func (a *App) Run(ctx context.Context, start string) error {
	path := start
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		nav := a.nav.Navigate(ctx, path)
		view, ok := a.views[nav.Destination]
		if !ok {
			return fmt.Errorf("no view for %s", nav.Destination)
		}

		a.logger.Debug().
			Str("requested", nav.Requested).
			Str("destination", nav.Destination).
			Bool("denied", nav.Denied).
			Msg("Navigate")

		next, err := view.Run(ctx)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			return err
		}
		if next == views.Exit {
			return nil
		}
		path = next
	}
}
