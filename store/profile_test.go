package store

import (
	"context"
	"testing"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetProfile(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetProfileByUsername(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpsertProfileIdempotent(t *testing.T) {
	s, db := newTestStore(t)

	first, err := s.UpsertProfile(context.Background(), &model.Profile{
		Id:       "user-1",
		Username: strPtr("chen"),
		FullName: "Chen Wei",
	})
	require.NoError(t, err)
	assert.Equal(t, "chen", first.Username)

	// A second provisioning attempt for the same identity must not
	// touch the existing row.
	second, err := s.UpsertProfile(context.Background(), &model.Profile{
		Id:       "user-1",
		Username: strPtr("someone-else"),
		FullName: "Different Name",
	})
	require.NoError(t, err)
	assert.Equal(t, "chen", second.Username)
	assert.Equal(t, "Chen Wei", second.FullName)

	var count int64
	require.NoError(t, db.Model(&model.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProfilePatch(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")

	skills := []string{"illustration", "3d"}
	updated, err := s.UpdateProfile(context.Background(), "user-1", view.ProfilePatch{
		Bio:    strPtr("generative artist"),
		Skills: &skills,
	})
	require.NoError(t, err)
	assert.Equal(t, "generative artist", updated.Bio)
	assert.Equal(t, skills, updated.Skills)
	// Untouched fields survive the patch.
	assert.Equal(t, "Creator user-1", updated.FullName)
}

func TestUpdateProfileNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateProfile(context.Background(), "missing", view.ProfilePatch{
		Bio: strPtr("anything"),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	seedProfile(t, db, "user-2")

	_, err := s.UpdateProfile(context.Background(), "user-1", view.ProfilePatch{
		Username: strPtr("chen"),
	})
	require.NoError(t, err)

	_, err = s.UpdateProfile(context.Background(), "user-2", view.ProfilePatch{
		Username: strPtr("chen"),
	})
	assert.True(t, errors.Is(err, ErrConflict))

	// Renaming to the handle you already hold is not a conflict.
	updated, err := s.UpdateProfile(context.Background(), "user-1", view.ProfilePatch{
		Username: strPtr("chen"),
	})
	require.NoError(t, err)
	assert.Equal(t, "chen", updated.Username)
}
