package views

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/bookshelf-dev/bookshelf/internal/cli/client"
	"github.com/bookshelf-dev/bookshelf/internal/cli/prompt"
	"github.com/bookshelf-dev/bookshelf/internal/router"
)

const (
	RegisteredNotice     = "Registration successful!"
	RegisterFailedNotice = "An error occurred during registration"
)

// RegisterView creates accounts
type RegisterView struct {
	auth     CredentialGateway
	prompter prompt.Prompter
	out      io.Writer
	logger   zerolog.Logger
}

// NewRegisterView creates the registration screen
func NewRegisterView(auth CredentialGateway, p prompt.Prompter, out io.Writer, logger zerolog.Logger) *RegisterView {
	return &RegisterView{auth: auth, prompter: p, out: out, logger: logger}
}

func (v *RegisterView) Run(ctx context.Context) (string, error) {
	choice, err := v.prompter.Select("Register", []string{"Create account", "Back to login", "Quit"})
	if err != nil {
		return Exit, err
	}

	switch choice {
	case 1:
		return router.PathLogin, nil
	case 2:
		return Exit, nil
	}

	var req client.RegisterRequest
	if req.Username, err = v.prompter.Input("Username", prompt.InputOptions{}); err != nil {
		return Exit, err
	}
	if req.Email, err = v.prompter.Input("Email", prompt.InputOptions{}); err != nil {
		return Exit, err
	}
	if req.Password, err = v.prompter.Input("Password", prompt.InputOptions{Mask: true}); err != nil {
		return Exit, err
	}

	return v.Submit(ctx, req), nil
}

// Submit performs the registration exchange and returns where to go next
func (v *RegisterView) Submit(ctx context.Context, req client.RegisterRequest) string {
	result, err := v.auth.Register(ctx, req)
	if err != nil {
		if errors.Is(err, client.ErrValidation) {
			notify(v.out, "%s", validationMessage(err))
			return router.PathRegister
		}
		v.logger.Error().Err(err).Msg("Registration request failed")
		notify(v.out, RegisterFailedNotice)
		return router.PathRegister
	}

	if !result.Success {
		notify(v.out, "%s", result.Message)
		return router.PathRegister
	}

	notify(v.out, RegisteredNotice)
	return router.PathLogin
}
