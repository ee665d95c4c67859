package store

import (
	"context"
	"testing"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTribeFounderJoinsAsAdmin(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "founder")

	tribe := seedTribe(t, s, "founder", "muralists", true)
	assert.True(t, tribe.IsMember)
	assert.Equal(t, model.TribeRoleAdmin, tribe.UserRole)
	assert.Equal(t, 1, tribe.MemberCount)

	role, err := s.TribeRole(context.Background(), "founder", tribe.Id)
	require.NoError(t, err)
	assert.Equal(t, model.TribeRoleAdmin, role)

	mine, err := s.ListUserTribes(context.Background(), "founder")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, tribe.Id, mine[0].Id)
}

func TestCreateTribeSlugConflict(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "founder")
	seedTribe(t, s, "founder", "muralists", true)

	_, err := s.CreateTribe(context.Background(), model.Tribe{
		CreatorID: "founder",
		Name:      "Copycats",
		Slug:      "muralists",
	})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestJoinAndLeaveTribeMemberCount(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "founder")
	seedProfile(t, db, "joiner")
	tribe := seedTribe(t, s, "founder", "muralists", true)

	require.NoError(t, s.JoinTribe(context.Background(), "joiner", tribe.Id))
	// Joining twice is a no-op and must not double-count.
	require.NoError(t, s.JoinTribe(context.Background(), "joiner", tribe.Id))

	var row model.Tribe
	require.NoError(t, db.First(&row, "id = ?", tribe.Id).Error)
	assert.Equal(t, 2, row.MemberCount)

	require.NoError(t, s.LeaveTribe(context.Background(), "joiner", tribe.Id))
	require.NoError(t, s.LeaveTribe(context.Background(), "joiner", tribe.Id))
	require.NoError(t, db.First(&row, "id = ?", tribe.Id).Error)
	assert.Equal(t, 1, row.MemberCount)

	_, err := s.TribeRole(context.Background(), "joiner", tribe.Id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListTribesViewerContext(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "founder")
	seedProfile(t, db, "joiner")
	public := seedTribe(t, s, "founder", "public-tribe", true)
	seedTribe(t, s, "founder", "hidden-tribe", false)

	require.NoError(t, s.JoinTribe(context.Background(), "joiner", public.Id))

	// Only public tribes are listed, membership is viewer-relative.
	tribes, err := s.ListTribes(context.Background(), "joiner")
	require.NoError(t, err)
	require.Len(t, tribes, 1)
	assert.Equal(t, public.Id, tribes[0].Id)
	assert.True(t, tribes[0].IsMember)
	assert.Equal(t, model.TribeRoleMember, tribes[0].UserRole)

	anonymous, err := s.ListTribes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.False(t, anonymous[0].IsMember)

	// The hidden tribe still shows up for its members through the
	// membership listing.
	mine, err := s.ListUserTribes(context.Background(), "founder")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
