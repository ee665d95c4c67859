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

// ListChannels returns a project's channels ordered by order index
// ascending, id as the deterministic tie-breaker, with the derived
// block count batched in one grouped query.
func (s *Store) ListChannels(ctx context.Context, projectId string) ([]view.Channel, error) {
	db := s.db.WithContext(ctx)

	var rows []model.Channel
	res := db.Where("project_id = ?", projectId).
		Order("order_index ASC").Order("id ASC").
		Find(&rows)
	if res.Error != nil {
		Logger.Log.Error("fail to list channels: ", res.Error)
		return nil, errors.Wrap(res.Error, "list channels")
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Id)
	}
	blockCounts := map[string]int{}
	if len(ids) > 0 {
		var err error
		blockCounts, err = groupCount(db.Model(&model.Block{}).
			Select("channel_id AS id, COUNT(*) AS total").
			Where("channel_id IN ?", ids).
			Group("channel_id"))
		if err != nil {
			Logger.Log.Error("fail to count blocks per channel: ", err)
			return nil, errors.Wrap(err, "count blocks per channel")
		}
	}

	views := make([]view.Channel, 0, len(rows))
	for _, row := range rows {
		views = append(views, view.ChannelFromRow(row, blockCounts[row.Id]))
	}
	return views, nil
}

// CreateChannel appends a channel to its project. The order index is
// assigned inside the transaction as max(sibling order)+1, keeping
// sibling indexes unique and contiguous.
func (s *Store) CreateChannel(ctx context.Context, row model.Channel) (*view.Channel, error) {
	if row.ProjectID == "" || row.Name == "" {
		return nil, errors.Wrap(ErrInvalid, "channel needs a project and a name")
	}
	row.Id = uuid.New().String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.Channel{}).
			Select("COALESCE(MAX(order_index) + 1, 0)").
			Where("project_id = ?", row.ProjectID).
			Scan(&next).Error; err != nil {
			return err
		}
		row.OrderIndex = next
		return tx.Create(&row).Error
	})
	if err != nil {
		Logger.Log.Error("fail to create channel: ", err)
		return nil, errors.Wrap(err, "create channel")
	}

	c := view.ChannelFromRow(row, 0)
	return &c, nil
}

// ChannelOwner resolves the owner of the project a channel belongs
// to, for mutation authorization.
func (s *Store) ChannelOwner(ctx context.Context, id string) (string, error) {
	var owner string
	res := s.db.WithContext(ctx).Model(&model.Channel{}).
		Select("projects.user_id").
		Joins("JOIN projects ON projects.id = channels.project_id").
		Where("channels.id = ?", id).
		Scan(&owner)
	if res.Error != nil {
		Logger.Log.Error("fail to resolve channel owner: ", res.Error)
		return "", errors.Wrap(res.Error, "resolve channel owner")
	}
	if owner == "" {
		return "", errors.Wrapf(ErrNotFound, "channel %s", id)
	}
	return owner, nil
}

// ChannelProject resolves the owner and visibility of the project a
// channel belongs to, for read paths that must hide private projects.
func (s *Store) ChannelProject(ctx context.Context, id string) (string, bool, error) {
	var row struct {
		UserID   string
		IsPublic bool
	}
	res := s.db.WithContext(ctx).Model(&model.Channel{}).
		Select("projects.user_id, projects.is_public").
		Joins("JOIN projects ON projects.id = channels.project_id").
		Where("channels.id = ?", id).
		Scan(&row)
	if res.Error != nil {
		Logger.Log.Error("fail to resolve channel project: ", res.Error)
		return "", false, errors.Wrap(res.Error, "resolve channel project")
	}
	if row.UserID == "" {
		return "", false, errors.Wrapf(ErrNotFound, "channel %s", id)
	}
	return row.UserID, row.IsPublic, nil
}

// DeleteChannel removes a channel and reindexes the surviving
// siblings in the same transaction so order stays contiguous.
func (s *Store) DeleteChannel(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Channel
		res := tx.Where("id = ?", id).First(&row)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return errors.Wrapf(ErrNotFound, "channel %s", id)
		}
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Delete(&model.Channel{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&model.Channel{}).
			Where("project_id = ? AND order_index > ?", row.ProjectID, row.OrderIndex).
			UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		Logger.Log.Error("fail to delete channel: ", err)
		return errors.Wrap(err, "delete channel")
	}
	return err
}
