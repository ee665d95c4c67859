package model

import "time"

/*

Comment is a reply on a post. Only the per-post count is surfaced by
the pulse feed today, comment CRUD itself has no public operation.

ParentCommentID: optional parent for threaded replies.
*/
type Comment struct {
	Id              string `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User            Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID          string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post            Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ParentCommentID *string
	Content         string
}
