// auth is the boundary to the hosted auth service. The application
// never stores credentials itself: it verifies access tokens, asks
// for the current session and listens for auth-state changes, and the
// provider owns everything else.
package auth

import "context"

// Identity is the authenticated principal as reported by the auth
// provider. Id is stable and doubles as the Profile primary key.
type Identity struct {
	Id        string
	Email     string
	Username  string
	FullName  string
	AvatarUrl string
}

// Session is one signed-in identity together with its access token.
type Session struct {
	Identity    Identity
	AccessToken string
}

type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is one auth-state change notification. Session is nil for
// EventSignedOut.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Provider exposes the hosted auth service's session surface.
type Provider interface {
	// CurrentSession returns the active session, or (nil, nil) when
	// nobody is signed in.
	CurrentSession(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
	// Subscribe registers for auth-state change notifications for the
	// rest of the process lifetime, or until the returned cancel
	// function runs.
	Subscribe() (<-chan Event, func())
}

// TokenVerifier resolves an access token to the identity it was
// issued for. Used by the request middleware.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*Identity, error)
}
