// Package gate decides whether a protected destination may be entered.
package gate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bookshelf-dev/bookshelf/internal/session"
)

// Decision is the outcome of evaluating the gate
type Decision int

const (
	Permit Decision = iota
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Permit:
		return "permit"
	case RedirectToLogin:
		return "redirect-to-login"
	default:
		return "unknown"
	}
}

// RoleReader is the part of the session store the gate depends on
type RoleReader interface {
	Role(ctx context.Context) (session.Role, error)
}

// Gate guards protected destinations using only the stored session role
type Gate struct {
	roles  RoleReader
	logger zerolog.Logger
}

// New creates a gate over the given role source
func New(roles RoleReader, logger zerolog.Logger) *Gate {
	return &Gate{roles: roles, logger: logger}
}

// Evaluate permits entry to destination iff a role is present. A failed read
// counts as absent and is never returned to the caller.
func (g *Gate) Evaluate(ctx context.Context, destination string) Decision {
	role, err := g.roles.Role(ctx)
	if err != nil {
		g.logger.Debug().Err(err).Str("destination", destination).Msg("Session read failed, treating as logged out")
		return RedirectToLogin
	}
	if !role.Authenticated() {
		return RedirectToLogin
	}
	return Permit
}
