package sessions

import (
	"github.com/jrsteele09/legalcase-console/users"
	"golang.org/x/oauth2"
)

// Phase is where the session is in its lifecycle:
// Unresolved → Resolving → {Authenticated, Anonymous}, then
// Authenticated ⇄ Anonymous through logout and login.
type Phase int

const (
	PhaseUnresolved Phase = iota
	PhaseResolving
	PhaseAuthenticated
	PhaseAnonymous
)

// PhaseNames lists every phase label, for metrics.
var PhaseNames = []string{"unresolved", "resolving", "authenticated", "anonymous"}

func (p Phase) String() string {
	if int(p) < 0 || int(p) >= len(PhaseNames) {
		return "unknown"
	}
	return PhaseNames[p]
}

// State is a snapshot of the session.
type State struct {
	Token    *oauth2.Token // Access credential; the refresh token stays in the cookie jar
	User     *users.User   // Profile fetched with Token
	Resolved bool          // The startup refresh attempt has finished
	Phase    Phase
}

// Authenticated reports whether a credential is held.
func (s State) Authenticated() bool {
	return s.Token != nil
}
