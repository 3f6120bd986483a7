package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/router"
)

// LoginFailedNotice is shown when the API could not be reached during login
const LoginFailedNotice = "An error occurred during login"

// LoginView collects credentials and opens a session on success
type LoginView struct {
	auth     CredentialGateway
	session  Session
	prompter prompt.Prompter
	out      io.Writer
	logger   zerolog.Logger
}

// NewLoginView creates the login screen
func NewLoginView(auth CredentialGateway, sess Session, p prompt.Prompter, out io.Writer, logger zerolog.Logger) *LoginView {
	return &LoginView{auth: auth, session: sess, prompter: p, out: out, logger: logger}
}

func (v *LoginView) Run(ctx context.Context) (string, error) {
	choice, err := v.prompter.Select("Login", []string{"Log in", "Create an account", "Quit"})
	if err != nil {
		return Exit, err
	}

	switch choice {
	case 1:
		return router.PathRegister, nil
	case 2:
		return Exit, nil
	}

	email, err := v.prompter.Input("Email", prompt.InputOptions{})
	if err != nil {
		return Exit, err
	}
	password, err := v.prompter.Input("Password", prompt.InputOptions{Mask: true})
	if err != nil {
		return Exit, err
	}

	return v.Submit(ctx, email, password)
}

// Submit performs the login exchange and returns where to go next. Rejections
// and transport failures are shown as notices, not returned.
func (v *LoginView) Submit(ctx context.Context, email, password string) (string, error) {
	result, err := v.auth.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, client.ErrValidation) {
			notify(v.out, "%s", validationMessage(err))
			return router.PathLogin, nil
		}
		v.logger.Error().Err(err).Msg("Login request failed")
		notify(v.out, LoginFailedNotice)
		return router.PathLogin, nil
	}

	if !result.Success {
		notify(v.out, "%s", result.Message)
		return router.PathLogin, nil
	}

	role := v.session.RoleForEmail(email)
	if err := v.session.SetRole(ctx, role); err != nil {
		return router.PathLogin, fmt.Errorf("failed to start session: %w", err)
	}

	v.logger.Info().Str("role", role.String()).Msg("Logged in")
	return router.PathBookSearch, nil
}

// validationMessage drops the sentinel prefix from a validation error
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), client.ErrValidation.Error()+": ")
}
