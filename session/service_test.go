package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Luismorlan/craftvalley/auth"
	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/store"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore is an in-memory ProfileStore that records how many
// times each operation ran.
type countingStore struct {
	mu       sync.Mutex
	upserts  int
	failWith error
	profiles map[string]view.Profile
}

func newCountingStore() *countingStore {
	return &countingStore{profiles: map[string]view.Profile{}}
}

func (c *countingStore) GetProfile(ctx context.Context, id string) (*view.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[id]
	if !ok {
		return nil, errors.Errorf("profile %s not found", id)
	}
	return &p, nil
}

func (c *countingStore) UpsertProfile(ctx context.Context, profile *model.Profile) (*view.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upserts++

	if c.failWith != nil {
		err := c.failWith
		c.failWith = nil
		return nil, err
	}
	if existing, ok := c.profiles[profile.Id]; ok {
		return &existing, nil
	}
	for id, p := range c.profiles {
		if id != profile.Id && profile.Username != nil && p.Username == *profile.Username {
			return nil, errors.Wrapf(store.ErrConflict, "username %s is taken", p.Username)
		}
	}

	p := view.Profile{Id: profile.Id, FullName: profile.FullName, AvatarUrl: profile.AvatarUrl}
	if profile.Username != nil {
		p.Username = *profile.Username
	}
	c.profiles[profile.Id] = p
	return &p, nil
}

func (c *countingStore) upsertCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upserts
}

func signedInProvider(id, email string) *auth.FakeProvider {
	provider := auth.NewFakeProvider()
	provider.SetSession(&auth.Session{
		Identity:    auth.Identity{Id: id, Email: email, FullName: "Chen Wei"},
		AccessToken: "token-1",
	})
	return provider
}

func TestStartProvisionsProfileExactlyOnce(t *testing.T) {
	provider := signedInProvider("user-1", "chen@example.com")
	profiles := newCountingStore()
	service := NewService(provider, profiles)
	defer service.Stop()

	require.NoError(t, service.Start(context.Background()))

	state := service.Current()
	require.NotNil(t, state.Identity)
	require.NotNil(t, state.Profile)
	assert.False(t, state.Loading)
	assert.Equal(t, "user-1", state.Identity.Id)
	assert.Equal(t, "chen", state.Profile.Username)
	assert.Equal(t, 1, profiles.upsertCount())

	// A duplicate sign-in for the same identity must not write again.
	updates, err := service.Subscribe(context.Background())
	require.NoError(t, err)
	provider.Emit(auth.Event{Kind: auth.EventSignedIn, Session: &auth.Session{
		Identity:    auth.Identity{Id: "user-1", Email: "chen@example.com"},
		AccessToken: "token-2",
	}})
	waitForState(t, updates, func(st State) bool { return st.Identity != nil })
	assert.Equal(t, 1, profiles.upsertCount())
}

func TestStartWithoutSession(t *testing.T) {
	provider := auth.NewFakeProvider()
	profiles := newCountingStore()
	service := NewService(provider, profiles)
	defer service.Stop()

	require.NoError(t, service.Start(context.Background()))

	state := service.Current()
	assert.Nil(t, state.Identity)
	assert.Nil(t, state.Profile)
	assert.False(t, state.Loading)
	assert.Equal(t, 0, profiles.upsertCount())
}

func TestSignOutClearsState(t *testing.T) {
	provider := signedInProvider("user-1", "chen@example.com")
	profiles := newCountingStore()
	service := NewService(provider, profiles)
	defer service.Stop()

	require.NoError(t, service.Start(context.Background()))
	require.NotNil(t, service.Current().Profile)

	updates, err := service.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, service.SignOut(context.Background()))

	waitForState(t, updates, func(st State) bool { return st.Identity == nil })
	state := service.Current()
	assert.Nil(t, state.Identity)
	assert.Nil(t, state.Profile)
	assert.False(t, state.Loading)
}

func TestProvisionRetriesTakenUsername(t *testing.T) {
	profiles := newCountingStore()
	_, err := profiles.UpsertProfile(context.Background(), &model.Profile{
		Id:       "user-0",
		Username: strPtr("chen"),
	})
	require.NoError(t, err)

	provider := signedInProvider("user-1", "chen@example.com")
	service := NewService(provider, profiles)
	defer service.Stop()

	require.NoError(t, service.Start(context.Background()))

	state := service.Current()
	require.NotNil(t, state.Profile)
	assert.Regexp(t, `^chen-[0-9a-f]{8}$`, state.Profile.Username)
}

func TestProvisionDoesNotRetryTransientFailure(t *testing.T) {
	profiles := newCountingStore()
	profiles.failWith = errors.New("connection reset by peer")

	provider := signedInProvider("user-1", "chen@example.com")
	service := NewService(provider, profiles)
	defer service.Stop()

	require.NoError(t, service.Start(context.Background()))

	// A failure that is not a handle conflict gets surfaced, never
	// papered over with a suffixed username.
	state := service.Current()
	require.NotNil(t, state.Identity)
	assert.Nil(t, state.Profile)
	assert.Equal(t, 1, profiles.upsertCount())

	// No suffixed row was written behind the failure.
	_, err := profiles.GetProfile(context.Background(), "user-1")
	require.Error(t, err)
}

func TestRefreshProfilePicksUpStoreChanges(t *testing.T) {
	provider := signedInProvider("user-1", "chen@example.com")
	profiles := newCountingStore()
	service := NewService(provider, profiles)
	defer service.Stop()

	require.NoError(t, service.Start(context.Background()))

	profiles.mu.Lock()
	p := profiles.profiles["user-1"]
	p.Bio = "generative artist"
	profiles.profiles["user-1"] = p
	profiles.mu.Unlock()

	require.NoError(t, service.RefreshProfile(context.Background()))
	assert.Equal(t, "generative artist", service.Current().Profile.Bio)
}

func waitForState(t *testing.T, updates <-chan State, match func(State) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-updates:
			require.True(t, ok, "state channel closed before matching snapshot")
			if match(st) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for session state")
		}
	}
}

func strPtr(s string) *string { return &s }
