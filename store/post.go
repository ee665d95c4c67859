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

// PostFilters narrows a pulse listing. Zero fields are ignored.
type PostFilters struct {
	Type       []model.PostType
	ProjectId  string
	TribeId    string
	UserId     string
	IsFeatured *bool
}

// ListPosts returns a page of the pulse feed, newest-created first,
// with author/project/tribe preloaded. Like and comment counts for
// the whole page are batched into one grouped query each instead of a
// per-post lookup. When viewerId is set, IsLiked is derived from the
// viewer's reaction rows; IsSaved stays a placeholder.
func (s *Store) ListPosts(ctx context.Context, viewerId string, filters PostFilters, limit, offset int) ([]view.Post, error) {
	db := s.db.WithContext(ctx)

	q := db.Model(&model.Post{}).
		Preload("User").Preload("Project").Preload("Tribe").
		Order("created_at DESC").
		Limit(limit).Offset(offset)
	if len(filters.Type) > 0 {
		q = q.Where("type IN ?", filters.Type)
	}
	if filters.ProjectId != "" {
		q = q.Where("project_id = ?", filters.ProjectId)
	}
	if filters.TribeId != "" {
		q = q.Where("tribe_id = ?", filters.TribeId)
	}
	if filters.UserId != "" {
		q = q.Where("user_id = ?", filters.UserId)
	}
	if filters.IsFeatured != nil {
		q = q.Where("is_featured = ?", *filters.IsFeatured)
	}

	var rows []model.Post
	if err := q.Find(&rows).Error; err != nil {
		Logger.Log.Error("fail to list posts: ", err)
		return nil, errors.Wrap(err, "list posts")
	}

	views := make([]view.Post, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Id)
	}

	likeCounts, err := groupCount(db.Model(&model.Like{}).
		Select("post_id AS id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id"))
	if err != nil {
		Logger.Log.Error("fail to count likes: ", err)
		return nil, errors.Wrap(err, "count likes")
	}
	commentCounts, err := groupCount(db.Model(&model.Comment{}).
		Select("post_id AS id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id"))
	if err != nil {
		Logger.Log.Error("fail to count comments: ", err)
		return nil, errors.Wrap(err, "count comments")
	}

	liked := map[string]bool{}
	if viewerId != "" {
		var likedIds []string
		if err := db.Model(&model.Like{}).
			Where("user_id = ? AND post_id IN ?", viewerId, ids).
			Pluck("post_id", &likedIds).Error; err != nil {
			Logger.Log.Error("fail to fetch viewer likes: ", err)
			return nil, errors.Wrap(err, "fetch viewer likes")
		}
		for _, id := range likedIds {
			liked[id] = true
		}
	}

	for _, row := range rows {
		views = append(views, view.PostFromRow(row, view.PostEngagement{
			LikeCount:    likeCounts[row.Id],
			CommentCount: commentCounts[row.Id],
			IsLiked:      liked[row.Id],
		}))
	}
	return views, nil
}

// CreatePost publishes a new pulse entry authored by row.UserID.
func (s *Store) CreatePost(ctx context.Context, row model.Post) (*view.Post, error) {
	if row.UserID == "" || row.Content == "" {
		return nil, errors.Wrap(ErrInvalid, "post needs an author and content")
	}
	if !row.Type.IsValid() {
		return nil, errors.Wrapf(ErrInvalid, "unknown post type %q", row.Type)
	}
	row.Id = uuid.New().String()

	db := s.db.WithContext(ctx)
	if err := db.Create(&row).Error; err != nil {
		Logger.Log.Error("fail to create post: ", err)
		return nil, errors.Wrap(err, "create post")
	}
	if row.TribeID != nil {
		if err := db.Model(&model.Tribe{}).Where("id = ?", *row.TribeID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
			Logger.Log.Error("fail to bump tribe post count: ", err)
		}
	}

	var created model.Post
	if err := db.Preload("User").Preload("Project").Preload("Tribe").
		First(&created, "id = ?", row.Id).Error; err != nil {
		Logger.Log.Error("fail to read back created post: ", err)
		return nil, errors.Wrap(err, "read back created post")
	}
	p := view.PostFromRow(created, view.PostEngagement{})
	return &p, nil
}

// LikePost records a reaction. Liking an already-liked post is a
// no-op, (user, post) holds at most one reaction row.
func (s *Store) LikePost(ctx context.Context, userId, postId string, kind model.LikeType) error {
	if kind == "" {
		kind = model.LikeTypeLike
	}
	if !kind.IsValid() {
		return errors.Wrapf(ErrInvalid, "unknown reaction %q", kind)
	}
	like := model.Like{
		Id:     uuid.New().String(),
		UserID: userId,
		PostID: postId,
		Type:   kind,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoNothing: true,
	}).Create(&like)
	if res.Error != nil {
		Logger.Log.Error("fail to like post: ", res.Error)
		return errors.Wrap(res.Error, "like post")
	}
	return nil
}

// UnlikePost removes the viewer's reaction if one exists.
func (s *Store) UnlikePost(ctx context.Context, userId, postId string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userId, postId).
		Delete(&model.Like{})
	if res.Error != nil {
		Logger.Log.Error("fail to unlike post: ", res.Error)
		return errors.Wrap(res.Error, "unlike post")
	}
	return nil
}

// PostLikeCount counts reactions on one post.
func (s *Store) PostLikeCount(ctx context.Context, postId string) (int, error) {
	var count int64
	res := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postId).Count(&count)
	if res.Error != nil {
		Logger.Log.Error("fail to count post likes: ", res.Error)
		return 0, errors.Wrap(res.Error, "count post likes")
	}
	return int(count), nil
}

// PostCommentCount counts comments on one post.
func (s *Store) PostCommentCount(ctx context.Context, postId string) (int, error) {
	var count int64
	res := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postId).Count(&count)
	if res.Error != nil {
		Logger.Log.Error("fail to count post comments: ", res.Error)
		return 0, errors.Wrap(res.Error, "count post comments")
	}
	return int(count), nil
}

// RecordPostView bumps the stored view counter of one post.
func (s *Store) RecordPostView(ctx context.Context, postId string) error {
	res := s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", postId).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		Logger.Log.Error("fail to record post view: ", res.Error)
		return errors.Wrap(res.Error, "record post view")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "post %s", postId)
	}
	return nil
}
