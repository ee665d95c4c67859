package store

import (
	"context"
	"testing"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCreateBlockOrderAndMetadata(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)
	channel := seedChannel(t, s, project.Id, "inspiration")

	first, err := s.CreateBlock(context.Background(), model.Block{
		ChannelID: channel.Id,
		Type:      model.BlockTypeLink,
		Content:   "https://example.com",
		Metadata:  datatypes.JSON([]byte(`{"favicon":"https://example.com/icon.png"}`)),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, "https://example.com/icon.png", first.Metadata["favicon"])

	second, err := s.CreateBlock(context.Background(), model.Block{
		ChannelID: channel.Id,
		Type:      model.BlockTypeText,
		Content:   "a note",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrderIndex)
	assert.Equal(t, map[string]interface{}{}, second.Metadata)
}

func TestCreateBlockValidation(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)
	channel := seedChannel(t, s, project.Id, "inspiration")

	_, err := s.CreateBlock(context.Background(), model.Block{
		ChannelID: channel.Id,
		Type:      model.BlockType("gif"),
	})
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = s.CreateBlock(context.Background(), model.Block{Type: model.BlockTypeText})
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestDeleteBlockReindexesSiblings(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)
	channel := seedChannel(t, s, project.Id, "inspiration")

	blocks := []string{}
	for i := 0; i < 3; i++ {
		block, err := s.CreateBlock(context.Background(), model.Block{
			ChannelID: channel.Id,
			Type:      model.BlockTypeText,
			Content:   "note",
		})
		require.NoError(t, err)
		blocks = append(blocks, block.Id)
	}

	require.NoError(t, s.DeleteBlock(context.Background(), blocks[0]))

	remaining, err := s.ListBlocks(context.Background(), channel.Id)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, blocks[1], remaining[0].Id)
	assert.Equal(t, 0, remaining[0].OrderIndex)
	assert.Equal(t, blocks[2], remaining[1].Id)
	assert.Equal(t, 1, remaining[1].OrderIndex)
}

func TestBlockOwner(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)
	channel := seedChannel(t, s, project.Id, "inspiration")
	block, err := s.CreateBlock(context.Background(), model.Block{
		ChannelID: channel.Id,
		Type:      model.BlockTypeText,
		Content:   "note",
	})
	require.NoError(t, err)

	owner, err := s.BlockOwner(context.Background(), block.Id)
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)

	_, err = s.BlockOwner(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
