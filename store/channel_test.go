package store

import (
	"context"
	"testing"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChannelAssignsContiguousOrder(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)

	for i, name := range []string{"inspiration", "progress", "references"} {
		channel := seedChannel(t, s, project.Id, name)
		assert.Equal(t, i, channel.OrderIndex)
	}

	channels, err := s.ListChannels(context.Background(), project.Id)
	require.NoError(t, err)
	require.Len(t, channels, 3)
	for i, channel := range channels {
		assert.Equal(t, i, channel.OrderIndex)
	}
}

func TestDeleteChannelReindexesSiblings(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)

	first := seedChannel(t, s, project.Id, "first")
	second := seedChannel(t, s, project.Id, "second")
	third := seedChannel(t, s, project.Id, "third")

	require.NoError(t, s.DeleteChannel(context.Background(), second.Id))

	channels, err := s.ListChannels(context.Background(), project.Id)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	// Survivors keep their relative order and the indexes close up.
	assert.Equal(t, first.Id, channels[0].Id)
	assert.Equal(t, 0, channels[0].OrderIndex)
	assert.Equal(t, third.Id, channels[1].Id)
	assert.Equal(t, 1, channels[1].OrderIndex)

	assert.True(t, errors.Is(s.DeleteChannel(context.Background(), second.Id), ErrNotFound))
}

func TestListChannelsBlockCounts(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)
	channel := seedChannel(t, s, project.Id, "filled")
	seedChannel(t, s, project.Id, "empty")

	for i := 0; i < 2; i++ {
		_, err := s.CreateBlock(context.Background(), model.Block{
			ChannelID: channel.Id,
			Type:      model.BlockTypeText,
			Content:   "note",
		})
		require.NoError(t, err)
	}

	channels, err := s.ListChannels(context.Background(), project.Id)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, 2, channels[0].BlockCount)
	assert.Equal(t, 0, channels[1].BlockCount)
}

func TestChannelProject(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	public := seedProject(t, s, "user-1", "Open", true)
	private := seedProject(t, s, "user-1", "Secret", false)
	openChannel := seedChannel(t, s, public.Id, "inspiration")
	hiddenChannel := seedChannel(t, s, private.Id, "inspiration")

	owner, isPublic, err := s.ChannelProject(context.Background(), openChannel.Id)
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)
	assert.True(t, isPublic)

	owner, isPublic, err = s.ChannelProject(context.Background(), hiddenChannel.Id)
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)
	assert.False(t, isPublic)

	_, _, err = s.ChannelProject(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestChannelOwner(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)
	channel := seedChannel(t, s, project.Id, "inspiration")

	owner, err := s.ChannelOwner(context.Background(), channel.Id)
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)

	_, err = s.ChannelOwner(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
