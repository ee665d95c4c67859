package store

import (
	"context"

	"github.com/Luismorlan/craftvalley/model"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListBlocks returns a channel's blocks ordered by order index
// ascending, id as the deterministic tie-breaker.
func (s *Store) ListBlocks(ctx context.Context, channelId string) ([]view.Block, error) {
	var rows []model.Block
	res := s.db.WithContext(ctx).Where("channel_id = ?", channelId).
		Order("order_index ASC").Order("id ASC").
		Find(&rows)
	if res.Error != nil {
		Logger.Log.Error("fail to list blocks: ", res.Error)
		return nil, errors.Wrap(res.Error, "list blocks")
	}

	views := make([]view.Block, 0, len(rows))
	for _, row := range rows {
		views = append(views, view.BlockFromRow(row))
	}
	return views, nil
}

// CreateBlock appends a block to its channel, same order-index
// discipline as CreateChannel. No reordering operation is exposed.
func (s *Store) CreateBlock(ctx context.Context, row model.Block) (*view.Block, error) {
	if row.ChannelID == "" {
		return nil, errors.Wrap(ErrInvalid, "block needs a channel")
	}
	if !row.Type.IsValid() {
		return nil, errors.Wrapf(ErrInvalid, "unknown block type %q", row.Type)
	}
	row.Id = uuid.New().String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.Block{}).
			Select("COALESCE(MAX(order_index) + 1, 0)").
			Where("channel_id = ?", row.ChannelID).
			Scan(&next).Error; err != nil {
			return err
		}
		row.OrderIndex = next
		return tx.Create(&row).Error
	})
	if err != nil {
		Logger.Log.Error("fail to create block: ", err)
		return nil, errors.Wrap(err, "create block")
	}

	b := view.BlockFromRow(row)
	return &b, nil
}

// BlockOwner resolves the owner of the project a block belongs to,
// for mutation authorization.
func (s *Store) BlockOwner(ctx context.Context, id string) (string, error) {
	var owner string
	res := s.db.WithContext(ctx).Model(&model.Block{}).
		Select("projects.user_id").
		Joins("JOIN channels ON channels.id = blocks.channel_id").
		Joins("JOIN projects ON projects.id = channels.project_id").
		Where("blocks.id = ?", id).
		Scan(&owner)
	if res.Error != nil {
		Logger.Log.Error("fail to resolve block owner: ", res.Error)
		return "", errors.Wrap(res.Error, "resolve block owner")
	}
	if owner == "" {
		return "", errors.Wrapf(ErrNotFound, "block %s", id)
	}
	return owner, nil
}

// DeleteBlock removes a block and reindexes the surviving siblings.
func (s *Store) DeleteBlock(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Block
		res := tx.Where("id = ?", id).First(&row)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return errors.Wrapf(ErrNotFound, "block %s", id)
		}
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Delete(&model.Block{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&model.Block{}).
			Where("channel_id = ? AND order_index > ?", row.ChannelID, row.OrderIndex).
			UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		Logger.Log.Error("fail to delete block: ", err)
		return errors.Wrap(err, "delete block")
	}
	return err
}
