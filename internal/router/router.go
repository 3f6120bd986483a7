// Package router resolves navigable destinations and applies the access gate
// to guarded ones.
package router

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookshelf-dev/bookshelf/internal/gate"
)

const (
	PathRoot       = "/"
	PathLogin      = "/login"
	PathRegister   = "/register"
	PathBookSearch = "/book-search"
)

// maxRedirects bounds redirect chains in a misconfigured route table
const maxRedirects = 8

// Route is one entry of the route table. A route either redirects or names a
// view; Guarded views pass through the gate first.
type Route struct {
	Path       string
	RedirectTo string
	Guarded    bool
}

// Guard is the gate as seen by the router
type Guard interface {
	Evaluate(ctx context.Context, destination string) gate.Decision
}

// Navigation describes where a navigation request ended up
type Navigation struct {
	Requested   string
	Destination string
	// Denied is set when the gate turned the navigation away
	Denied bool
}

// Redirected reports whether the destination differs from the request
func (n Navigation) Redirected() bool {
	return n.Destination != normalize(n.Requested)
}

// Router maps paths to destinations
type Router struct {
	routes   map[string]Route
	fallback string
	guard    Guard
	logger   zerolog.Logger
}

// DefaultRoutes is the application route table. Unknown paths fall back to /login.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathRoot, RedirectTo: PathLogin},
		{Path: PathLogin},
		{Path: PathRegister},
		{Path: PathBookSearch, Guarded: true},
	}
}

// New creates a router over routes
func New(routes []Route, guard Guard, logger zerolog.Logger) *Router {
	table := make(map[string]Route, len(routes))
	for _, route := range routes {
		route.Path = normalize(route.Path)
		table[route.Path] = route
	}
	return &Router{
		routes:   table,
		fallback: PathLogin,
		guard:    guard,
		logger:   logger,
	}
}

// Navigate resolves path to the destination that should be shown
func (r *Router) Navigate(ctx context.Context, path string) Navigation {
	nav := Navigation{Requested: path}
	current := normalize(path)

	for hop := 0; hop < maxRedirects; hop++ {
		route, ok := r.routes[current]
		if !ok {
			r.logger.Debug().Str("path", current).Str("redirect_to", r.fallback).Msg("Unknown path")
			current = r.fallback
			continue
		}

		if route.RedirectTo != "" {
			current = normalize(route.RedirectTo)
			continue
		}

		if route.Guarded && r.guard.Evaluate(ctx, route.Path) == gate.RedirectToLogin {
			r.logger.Debug().Str("path", route.Path).Msg("Access denied, redirecting to login")
			nav.Denied = true
			current = PathLogin
			continue
		}

		nav.Destination = route.Path
		return nav
	}

	r.logger.Warn().Str("path", path).Msg("Too many redirects")
	nav.Destination = r.fallback
	return nav
}

// normalize strips query, fragment and trailing slash and ensures a leading slash
func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}
