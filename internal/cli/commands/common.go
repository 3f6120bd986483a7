package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/config"
	"github.com/bookshelf-dev/bookshelf/internal/gate"
	"github.com/bookshelf-dev/bookshelf/internal/logger"
	"github.com/bookshelf-dev/bookshelf/internal/router"
	"github.com/bookshelf-dev/bookshelf/internal/session"
	"github.com/bookshelf-dev/bookshelf/internal/storage"
)

// errNotLoggedIn is returned by commands that need the catalog when the gate
// redirects to login
var errNotLoggedIn = errors.New("not logged in. Run 'bookshelf login' first")

// deps is everything a command runs against. Close releases the storage.
type deps struct {
	cfg     *config.Config
	store   storage.Storage
	session *session.Store
	gate    *gate.Gate
	router  *router.Router
	client  *client.Client
	out     io.Writer
	logger  zerolog.Logger
}

// setup loads the config and wires storage, session, gate and API client.
// This is common logic used by every command.
func setup(cmd *cobra.Command) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	store, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	// An unreadable session counts as logged out; the gate redirects
	sess := session.NewStore(store, cfg.AdminEmail)
	if err := sess.Init(cmd.Context()); err != nil {
		log.Debug().Err(err).Msg("Failed to initialize session")
	}

	apiClient := client.New(cfg.API.URL, log)
	apiClient.SetHTTPClient(&http.Client{Timeout: cfg.API.Timeout})

	g := gate.New(sess, log)

	return &deps{
		cfg:     cfg,
		store:   store,
		session: sess,
		gate:    g,
		router:  router.New(router.DefaultRoutes(), g, log),
		client:  apiClient,
		out:     cmd.OutOrStdout(),
		logger:  log,
	}, nil
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.logger.Debug().Err(err).Msg("Failed to close local storage")
	}
}

// requireCatalog navigates to the book search destination and fails when the
// gate turns the navigation away
func (d *deps) requireCatalog(ctx context.Context) error {
	nav := d.router.Navigate(ctx, router.PathBookSearch)
	if nav.Destination != router.PathBookSearch {
		return errNotLoggedIn
	}
	return nil
}

// stdinIsTerminal reports whether prompts can be shown
func stdinIsTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPassword reads a password without echo. It fails in non-interactive mode.
func readPassword(out io.Writer, envVar string) (string, error) {
	if !stdinIsTerminal() {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or %s env var)", envVar)
	}

	fmt.Fprint(out, "Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// fromEnv returns value, or the environment variable key when value is empty
func fromEnv(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}
