// Package session owns the signed-in state of the process: which
// identity is active and the profile row backing it. It is the only
// component that provisions profile rows, everything else reads. State
// changes fan out to observers over an in-process event bus.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Luismorlan/craftvalley/auth"
	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/store"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TopicSessionState carries one message per session-state transition.
const TopicSessionState = "session.state"

// ProfileStore is the slice of the store the session service needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*view.Profile, error)
	UpsertProfile(ctx context.Context, profile *model.Profile) (*view.Profile, error)
}

// State is one session snapshot. Identity is nil when signed out.
// Loading is true only before the first resolution completes, so
// consumers can tell "not yet known" from "signed out".
type State struct {
	Identity *auth.Identity `json:"identity"`
	Profile  *view.Profile  `json:"profile"`
	Loading  bool           `json:"loading"`
}

// Service resolves the current session on startup, provisions the
// backing profile row on first sign-in, and tracks auth-state changes
// for the rest of its lifetime.
type Service struct {
	provider auth.Provider
	profiles ProfileStore

	// The EventBus state changes are published on. A golang channel
	// implementation is enough for a single process.
	bus *gochannel.GoChannel

	mu    sync.RWMutex
	state State

	cancel context.CancelFunc
	done   chan struct{}
}

func NewService(provider auth.Provider, profiles ProfileStore) *Service {
	return &Service{
		provider: provider,
		profiles: profiles,
		bus:      gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
		state:    State{Loading: true},
	}
}

// Start resolves the current session once, then consumes provider
// events until ctx is cancelled or Stop is called. The initial
// resolution finishes before Start returns, so the first Current()
// after Start never reports Loading.
func (s *Service) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	// Subscribe before resolving so a sign-in that lands mid
	// resolution is not dropped. The provisioning guard keeps the
	// overlap from double-writing the profile row.
	events, unsubscribe := s.provider.Subscribe()

	if err := s.resolve(ctx); err != nil {
		unsubscribe()
		cancel()
		return err
	}

	go func() {
		defer close(s.done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				s.handleEvent(ctx, e)
			}
		}
	}()
	return nil
}

// Stop cancels the event loop and closes the bus. Subscribers' channels
// close.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.bus.Close()
}

// Current returns the latest session snapshot.
func (s *Service) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe streams state snapshots to an observer. The returned
// channel closes when ctx is cancelled or the service stops.
func (s *Service) Subscribe(ctx context.Context) (<-chan State, error) {
	msgs, err := s.bus.Subscribe(ctx, TopicSessionState)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe session state")
	}

	out := make(chan State, 16)
	go func() {
		defer close(out)
		for msg := range msgs {
			msg.Ack()
			var st State
			if err := json.Unmarshal(msg.Payload, &st); err != nil {
				Logger.Log.Error("fail to decode session state: ", err)
				continue
			}
			out <- st
		}
	}()
	return out, nil
}

// RefreshProfile re-reads the active profile from the store, for use
// after the caller knows the row changed underneath the session.
func (s *Service) RefreshProfile(ctx context.Context) error {
	s.mu.RLock()
	identity := s.state.Identity
	s.mu.RUnlock()
	if identity == nil {
		return errors.New("no active session")
	}

	profile, err := s.profiles.GetProfile(ctx, identity.Id)
	if err != nil {
		return errors.Wrap(err, "refresh profile")
	}
	s.setState(State{Identity: identity, Profile: profile})
	return nil
}

// SignOut delegates to the provider. State clears when the sign-out
// event comes back through the subscription.
func (s *Service) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

func (s *Service) resolve(ctx context.Context) error {
	sess, err := s.provider.CurrentSession(ctx)
	if err != nil {
		return errors.Wrap(err, "resolve current session")
	}
	if sess == nil {
		s.setState(State{})
		return nil
	}
	s.handleSignIn(ctx, sess.Identity)
	return nil
}

func (s *Service) handleEvent(ctx context.Context, e auth.Event) {
	switch e.Kind {
	case auth.EventSignedIn:
		if e.Session != nil {
			s.handleSignIn(ctx, e.Session.Identity)
		}
	case auth.EventTokenRefreshed:
		// Token rotation only. Keep the loaded profile.
		if e.Session != nil {
			s.mu.Lock()
			identity := e.Session.Identity
			s.state.Identity = &identity
			snapshot := s.state
			s.mu.Unlock()
			s.publish(snapshot)
		}
	case auth.EventSignedOut:
		s.setState(State{})
	}
}

func (s *Service) handleSignIn(ctx context.Context, identity auth.Identity) {
	// A repeated sign-in for the identity that is already loaded must
	// not write the profile row again.
	s.mu.Lock()
	if s.state.Identity != nil && s.state.Identity.Id == identity.Id && s.state.Profile != nil {
		s.state.Identity = &identity
		snapshot := s.state
		s.mu.Unlock()
		s.publish(snapshot)
		return
	}
	s.mu.Unlock()

	profile, err := s.provisionProfile(ctx, identity)
	if err != nil {
		Logger.Log.Error("fail to provision profile: ", err)
		// Signed in but profile unavailable. Observers see the
		// identity and can retry through RefreshProfile.
		s.setState(State{Identity: &identity})
		return
	}
	s.setState(State{Identity: &identity, Profile: profile})
}

// provisionProfile inserts the profile row for a first sign-in, or
// returns the existing row untouched. The initial handle prefers the
// provider-reported username, then the email local part.
func (s *Service) provisionProfile(ctx context.Context, identity auth.Identity) (*view.Profile, error) {
	username := DeriveUsername(identity)

	row := model.Profile{
		Id:        identity.Id,
		Username:  &username,
		FullName:  identity.FullName,
		AvatarUrl: identity.AvatarUrl,
	}
	profile, err := s.profiles.UpsertProfile(ctx, &row)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		// A transient failure must not permanently claim a suffixed
		// handle. Surface it and let RefreshProfile retry.
		return nil, err
	}

	// The preferred handle already belongs to another profile. Retry
	// once with a random suffix.
	suffixed := username + "-" + uuid.New().String()[:8]
	row.Username = &suffixed
	return s.profiles.UpsertProfile(ctx, &row)
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.publish(st)
}

func (s *Service) publish(st State) {
	payload, err := json.Marshal(st)
	if err != nil {
		Logger.Log.Error("fail to encode session state: ", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.bus.Publish(TopicSessionState, msg); err != nil {
		Logger.Log.Error("fail to publish session state: ", err)
	}
}

// DeriveUsername picks the initial handle for an identity: the
// provider-reported username when present, otherwise the local part of
// the email address, otherwise "user".
func DeriveUsername(identity auth.Identity) string {
	if identity.Username != "" {
		return identity.Username
	}
	return usernameFromEmail(identity.Email)
}

func usernameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	if local == "" {
		local = "user"
	}
	return local
}
