package model

import "time"

type LikeType string

const (
	LikeTypeLike    LikeType = "like"
	LikeTypeLove    LikeType = "love"
	LikeTypeSupport LikeType = "support"
	LikeTypeInspire LikeType = "inspire"
)

func (t LikeType) IsValid() bool {
	switch t {
	case LikeTypeLike, LikeTypeLove, LikeTypeSupport, LikeTypeInspire:
		return true
	}
	return false
}

/*

Like is one user's reaction to one post.

(UserID, PostID) is unique: liking an already-liked post is a no-op at
the store level, there is at most one reaction row per user per post.
*/
type Like struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    string  `gorm:"uniqueIndex:idx_like_user_post;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID    string  `gorm:"uniqueIndex:idx_like_user_post;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post      Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Type      LikeType
}
