package auth

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// FakeProvider is an in-memory Provider for tests. Set a session,
// emit events, and assert on what subscribers observed.
type FakeProvider struct {
	mu      sync.Mutex
	session *Session
	subs    map[chan Event]bool
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{subs: map[chan Event]bool{}}
}

func (f *FakeProvider) SetSession(s *Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = s
}

func (f *FakeProvider) CurrentSession(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *FakeProvider) SignOut(ctx context.Context) error {
	f.SetSession(nil)
	f.Emit(Event{Kind: EventSignedOut})
	return nil
}

func (f *FakeProvider) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	f.mu.Lock()
	f.subs[ch] = true
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.subs[ch] {
			delete(f.subs, ch)
			close(ch)
		}
	}
}

// Emit delivers an event to every live subscriber. A sign-in event
// also becomes the current session.
func (f *FakeProvider) Emit(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.Kind == EventSignedIn || e.Kind == EventTokenRefreshed {
		f.session = e.Session
	}
	if e.Kind == EventSignedOut {
		f.session = nil
	}
	for ch := range f.subs {
		ch <- e
	}
}

// Verify implements TokenVerifier: a token matches when it equals the
// current session's access token.
func (f *FakeProvider) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil || f.session.AccessToken != accessToken {
		return nil, errors.New("invalid access token")
	}
	identity := f.session.Identity
	return &identity, nil
}
