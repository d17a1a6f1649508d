// Package guard decides whether a navigation target is reachable with the
// current session. The decision is recomputed on every call: a background
// refresh failure may have invalidated the credential since the last one.
package guard

import (
	"github.com/jovincart/storefront/session"
	"github.com/jovincart/storefront/token"
)

// Target is a navigation destination for redirects.
type Target string

const (
	LoginPage        Target = "/login"
	UnauthorizedPage Target = "/unauthorized"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed  bool
	Redirect Target
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// RedirectTo builds a deny decision pointing at target.
func RedirectTo(target Target) Decision {
	return Decision{Redirect: target}
}

// Session is the slice of the session manager the guard needs.
type Session interface {
	Current() session.Snapshot
	Invalidate()
}

// Authorize gates a navigation. required may be empty for routes that only
// need a login. A dead credential (expired or previously detected as
// undecodable) is cleared as a side effect before redirecting to login.
func Authorize(s Session, required token.Role) Decision {
	snap := s.Current()

	if snap.State == session.Expired {
		s.Invalidate()
		return RedirectTo(LoginPage)
	}
	if !snap.Authenticated || snap.Identity == nil {
		return RedirectTo(LoginPage)
	}
	if required != "" && snap.Identity.Role != required {
		return RedirectTo(UnauthorizedPage)
	}
	return Allow
}
