package auth

import "github.com/desertthunder/tdx/internal/models"

// State is the UI state of one page load.
type State int

const (
	Anonymous State = iota
	OAuthPending
	Authenticated
)

func (s State) String() string {
	switch s {
	case OAuthPending:
		return "oauth_pending"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Evaluate picks the state from the load's evidence.
//
// A session marker wins over redirect parameters; a redirect counts only when it carries both
// code and state.
func Evaluate(marker bool, redirect models.Redirect) State {
	switch {
	case marker:
		return Authenticated
	case redirect.Present():
		return OAuthPending
	default:
		return Anonymous
	}
}
