// Package routeguard decides whether a navigation target is reachable for
// the current session. The decision is a pure function of the requested
// path, the session role, and whether a session exists; it carries no state
// between evaluations.
package routeguard

import (
	"strings"

	"github.com/nahcon/mealtrack/internal/models"
)

// Well-known navigation targets.
const (
	LoginPath    = "/login"
	DefaultPath  = "/reports"
	FallbackPath = "/meals"
)

// Verdict classifies a guard decision.
type Verdict int

const (
	// Allow renders the requested view.
	Allow Verdict = iota
	// RedirectLogin sends an unauthenticated request to the login view.
	RedirectLogin
	// RedirectFallback sends an authenticated but unauthorized request to
	// the fallback view.
	RedirectFallback
	// Redirect sends the request to another view for reasons other than
	// authorization, e.g. the root path.
	Redirect
)

// Decision is the outcome of a single guard evaluation.
type Decision struct {
	Verdict Verdict
	// Target is the redirect destination for non-Allow verdicts.
	Target string
}

// rule declares the allowed role set for a path. An empty role set means
// any authenticated role may enter.
type rule struct {
	path  string
	roles []string
}

// The route surface. Paths absent from the table are treated as requiring
// authentication only.
var table = []rule{
	{path: "/users"},
	{path: "/meals"},
	{path: "/meals/new", roles: []string{models.RoleAdministrator, models.RoleNAHCONStaff}},
	{path: "/meal-requests", roles: []string{models.RoleStateRep}},
	{path: "/kitchen-requests", roles: []string{models.RoleKitchenRep}},
	{path: "/reports"},
	{path: "/settings"},
	{path: "/audit", roles: []string{models.RoleAdministrator}},
}

// Decide evaluates the guard for one navigation. role is ignored when
// authenticated is false.
func Decide(path, role string, authenticated bool) Decision {
	path = normalize(path)

	if path == LoginPath {
		return Decision{Verdict: Allow}
	}

	if !authenticated {
		return Decision{Verdict: RedirectLogin, Target: LoginPath}
	}

	if path == "/" || path == "" {
		return Decision{Verdict: Redirect, Target: DefaultPath}
	}

	for _, r := range table {
		if r.path != path {
			continue
		}
		if len(r.roles) == 0 || contains(r.roles, role) {
			return Decision{Verdict: Allow}
		}
		return Decision{Verdict: RedirectFallback, Target: FallbackPath}
	}

	return Decision{Verdict: Allow}
}

// AllowedRoles returns the declared role set for a path, nil when the path
// accepts any authenticated role.
func AllowedRoles(path string) []string {
	path = normalize(path)
	for _, r := range table {
		if r.path == path {
			return append([]string(nil), r.roles...)
		}
	}
	return nil
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func contains(set []string, role string) bool {
	for _, s := range set {
		if s == role {
			return true
		}
	}
	return false
}
