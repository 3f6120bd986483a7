// Package session holds the client's authorization role. The role is persisted in
// local storage so it survives restarts until logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookshelf-dev/bookshelf/internal/storage"
)

// RoleKey is the storage key the role is recorded under
const RoleKey = "userRole"

// DefaultAdminEmail is the identity that is granted the admin role on login
const DefaultAdminEmail = "admin@gmail.com"

// Role is the stored authorization marker
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrInvalidRole is returned when setting a role other than user or admin
var ErrInvalidRole = errors.New("invalid role")

// Authenticated reports whether r marks a logged-in session. The literal
// "none" token counts as unauthenticated like an absent entry.
func (r Role) Authenticated() bool {
	v := strings.TrimSpace(string(r))
	return v != "" && v != "none"
}

func (r Role) String() string {
	if !r.Authenticated() {
		return "none"
	}
	return string(r)
}

// Store is the session lifecycle over a storage backend
type Store struct {
	storage    storage.Storage
	adminEmail string
}

// NewStore creates a session store. An empty adminEmail falls back to DefaultAdminEmail.
func NewStore(s storage.Storage, adminEmail string) *Store {
	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	return &Store{storage: s, adminEmail: adminEmail}
}

// Init normalizes whatever is stored: an unrecognised value is removed so that
// later reads see an absent role.
func (s *Store) Init(ctx context.Context) error {
	role, err := s.Role(ctx)
	if err != nil {
		return err
	}
	if role == RoleNone || role == RoleUser || role == RoleAdmin {
		return nil
	}
	return s.Clear(ctx)
}

// Role returns the stored role, RoleNone when absent
func (s *Store) Role(ctx context.Context) (Role, error) {
	value, err := s.storage.GetItem(ctx, RoleKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return RoleNone, nil
		}
		return RoleNone, fmt.Errorf("failed to read session role: %w", err)
	}
	return Role(value), nil
}

// SetRole records role as the current session
func (s *Store) SetRole(ctx context.Context, role Role) error {
	if role != RoleUser && role != RoleAdmin {
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
	}
	if err := s.storage.SetItem(ctx, RoleKey, string(role)); err != nil {
		return fmt.Errorf("failed to save session role: %w", err)
	}
	return nil
}

// Clear ends the session. Everything in local storage goes with it, as logout does.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, RoleKey); err != nil {
		return fmt.Errorf("failed to clear session role: %w", err)
	}
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local storage: %w", err)
	}
	return nil
}

// RoleForEmail derives the role granted by a successful login
func (s *Store) RoleForEmail(email string) Role {
	if strings.TrimSpace(email) == s.adminEmail {
		return RoleAdmin
	}
	return RoleUser
}
