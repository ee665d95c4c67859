package store

import (
	"context"

	"github.com/Luismorlan/craftvalley/model"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListTribes returns the public tribes, newest-created first, with
// the viewer's membership and role derived from membership rows in
// one batched query.
func (s *Store) ListTribes(ctx context.Context, viewerId string) ([]view.Tribe, error) {
	db := s.db.WithContext(ctx)

	var rows []model.Tribe
	res := db.Preload("Creator").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&rows)
	if res.Error != nil {
		Logger.Log.Error("fail to list tribes: ", res.Error)
		return nil, errors.Wrap(res.Error, "list tribes")
	}

	roles := map[string]model.TribeRole{}
	if viewerId != "" && len(rows) > 0 {
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.Id)
		}
		var memberships []model.TribeMembership
		if err := db.Where("user_id = ? AND tribe_id IN ?", viewerId, ids).
			Find(&memberships).Error; err != nil {
			Logger.Log.Error("fail to fetch viewer memberships: ", err)
			return nil, errors.Wrap(err, "fetch viewer memberships")
		}
		for _, m := range memberships {
			roles[m.TribeID] = m.Role
		}
	}

	views := make([]view.Tribe, 0, len(rows))
	for _, row := range rows {
		role, ok := roles[row.Id]
		views = append(views, view.TribeFromRow(row, view.TribeViewerContext{
			IsMember: ok,
			Role:     role,
		}))
	}
	return views, nil
}

// ListUserTribes returns every tribe the user is a member of,
// regardless of visibility.
func (s *Store) ListUserTribes(ctx context.Context, userId string) ([]view.Tribe, error) {
	db := s.db.WithContext(ctx)

	var memberships []model.TribeMembership
	res := db.Preload("Tribe").Preload("Tribe.Creator").
		Where("user_id = ?", userId).
		Find(&memberships)
	if res.Error != nil {
		Logger.Log.Error("fail to list user tribes: ", res.Error)
		return nil, errors.Wrap(res.Error, "list user tribes")
	}

	views := make([]view.Tribe, 0, len(memberships))
	for _, m := range memberships {
		views = append(views, view.TribeFromRow(m.Tribe, view.TribeViewerContext{
			IsMember: true,
			Role:     m.Role,
		}))
	}
	return views, nil
}

// CreateTribe founds a tribe. The slug is the unique public URL
// segment; a taken slug is rejected with ErrConflict by an advisory
// pre-check, the unique index remains the authority.
func (s *Store) CreateTribe(ctx context.Context, row model.Tribe) (*view.Tribe, error) {
	if row.CreatorID == "" || row.Name == "" || row.Slug == "" {
		return nil, errors.Wrap(ErrInvalid, "tribe needs a creator, a name and a slug")
	}
	db := s.db.WithContext(ctx)

	var taken int64
	if err := db.Model(&model.Tribe{}).Where("slug = ?", row.Slug).Count(&taken).Error; err != nil {
		Logger.Log.Error("fail to pre-check tribe slug: ", err)
		return nil, errors.Wrap(err, "pre-check tribe slug")
	}
	if taken > 0 {
		return nil, errors.Wrapf(ErrConflict, "tribe slug %s is taken", row.Slug)
	}

	row.Id = uuid.New().String()
	// The founder joins as admin in the same transaction, so a tribe
	// never exists without at least one member.
	row.MemberCount = 1
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&model.TribeMembership{
			Id:      uuid.New().String(),
			TribeID: row.Id,
			UserID:  row.CreatorID,
			Role:    model.TribeRoleAdmin,
		}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to create tribe: ", err)
		return nil, errors.Wrap(err, "create tribe")
	}

	t := view.TribeFromRow(row, view.TribeViewerContext{
		IsMember: true,
		Role:     model.TribeRoleAdmin,
	})
	return &t, nil
}

// JoinTribe adds the user as a member. Joining twice is a no-op and
// does not double-count.
func (s *Store) JoinTribe(ctx context.Context, userId, tribeId string) error {
	membership := model.TribeMembership{
		Id:      uuid.New().String(),
		TribeID: tribeId,
		UserID:  userId,
		Role:    model.TribeRoleMember,
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tribe_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&membership)
		if res.Error != nil {
			Logger.Log.Error("fail to join tribe: ", res.Error)
			return errors.Wrap(res.Error, "join tribe")
		}
		if res.RowsAffected == 0 {
			// already a member
			return nil
		}
		return tx.Model(&model.Tribe{}).Where("id = ?", tribeId).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error
	})
}

// LeaveTribe removes the user's membership if one exists.
func (s *Store) LeaveTribe(ctx context.Context, userId, tribeId string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND tribe_id = ?", userId, tribeId).
			Delete(&model.TribeMembership{})
		if res.Error != nil {
			Logger.Log.Error("fail to leave tribe: ", res.Error)
			return errors.Wrap(res.Error, "leave tribe")
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Tribe{}).Where("id = ?", tribeId).
			UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error
	})
}

// TribeRole returns the viewer's role in a tribe, ErrNotFound when
// the viewer is not a member.
func (s *Store) TribeRole(ctx context.Context, userId, tribeId string) (model.TribeRole, error) {
	var membership model.TribeMembership
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND tribe_id = ?", userId, tribeId).
		First(&membership)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return "", errors.Wrapf(ErrNotFound, "membership of %s in %s", userId, tribeId)
	}
	if res.Error != nil {
		Logger.Log.Error("fail to fetch membership: ", res.Error)
		return "", errors.Wrap(res.Error, "fetch membership")
	}
	return membership.Role, nil
}
