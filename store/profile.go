package store

import (
	"context"

	"github.com/Luismorlan/craftvalley/model"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfile fetches a profile by its identity id.
func (s *Store) GetProfile(ctx context.Context, id string) (*view.Profile, error) {
	var row model.Profile
	res := s.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "profile %s", id)
	}
	if res.Error != nil {
		Logger.Log.Error("fail to fetch profile: ", res.Error)
		return nil, errors.Wrap(res.Error, "fetch profile")
	}
	p := view.ProfileFromRow(row)
	return &p, nil
}

// GetProfileByUsername fetches a profile by its unique handle, the
// canonical public-routing key.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*view.Profile, error) {
	var row model.Profile
	res := s.db.WithContext(ctx).Where("username = ?", username).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "profile with username %s", username)
	}
	if res.Error != nil {
		Logger.Log.Error("fail to fetch profile by username: ", res.Error)
		return nil, errors.Wrap(res.Error, "fetch profile by username")
	}
	p := view.ProfileFromRow(row)
	return &p, nil
}

// UpsertProfile provisions a profile row idempotently: insert when
// absent, otherwise return the existing row untouched. Two concurrent
// provisioning attempts for the same identity both converge on the
// same row.
func (s *Store) UpsertProfile(ctx context.Context, profile *model.Profile) (*view.Profile, error) {
	db := s.db.WithContext(ctx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(profile)
	if res.Error != nil {
		Logger.Log.Error("fail to upsert profile: ", res.Error)
		return nil, errors.Wrap(res.Error, "upsert profile")
	}

	var row model.Profile
	if err := db.First(&row, "id = ?", profile.Id).Error; err != nil {
		Logger.Log.Error("fail to read back upserted profile: ", err)
		return nil, errors.Wrap(err, "read back upserted profile")
	}
	p := view.ProfileFromRow(row)
	return &p, nil
}

// UpdateProfile applies a sparse patch to the caller's own profile.
// When the patch renames the username, an advisory pre-check rejects
// a taken handle with ErrConflict; the store's unique index remains
// the authority.
func (s *Store) UpdateProfile(ctx context.Context, id string, patch view.ProfilePatch) (*view.Profile, error) {
	db := s.db.WithContext(ctx)

	if patch.Username != nil {
		var taken int64
		res := db.Model(&model.Profile{}).
			Where("username = ? AND id != ?", *patch.Username, id).
			Count(&taken)
		if res.Error != nil {
			Logger.Log.Error("fail to pre-check username: ", res.Error)
			return nil, errors.Wrap(res.Error, "pre-check username")
		}
		if taken > 0 {
			return nil, errors.Wrapf(ErrConflict, "username %s is taken", *patch.Username)
		}
	}

	cols := patch.Columns()
	if len(cols) > 0 {
		res := db.Model(&model.Profile{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			Logger.Log.Error("fail to update profile: ", res.Error)
			return nil, errors.Wrap(res.Error, "update profile")
		}
		if res.RowsAffected == 0 {
			return nil, errors.Wrapf(ErrNotFound, "profile %s", id)
		}
	}

	return s.GetProfile(ctx, id)
}
