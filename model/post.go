package model

import "time"

type PostType string

const (
	PostTypeProgress             PostType = "progress"
	PostTypeQuestion             PostType = "question"
	PostTypeShowcase             PostType = "showcase"
	PostTypeCollaborationRequest PostType = "collaboration_request"
)

func (t PostType) IsValid() bool {
	switch t {
	case PostTypeProgress, PostTypeQuestion, PostTypeShowcase, PostTypeCollaborationRequest:
		return true
	}
	return false
}

/*

Post is a single entry on the collective pulse feed.

Id: primary key, use to identify a post
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated
UserID:
User: author of the post, "belongs-to" relation
ProjectID:
Project: optional project the post is about, "belongs-to" relation
TribeID:
Tribe: optional tribe the post was published to, "belongs-to" relation

Type: one of progress/question/showcase/collaboration_request
Title: optional title
Content: post body in plain text
MediaUrl: optional media reference
MediaType: MIME type of MediaUrl
ThumbnailUrl: optional thumbnail reference
IsFeatured: featured flag
ViewCount: number of recorded views

Engagement counts (likes/comments) and viewer-relative flags are
derived at read time, never stored on the row.
*/
type Post struct {
	Id           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User         Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProjectID    *string
	Project      *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	TribeID      *string
	Tribe        *Tribe `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Type         PostType
	Title        string
	Content      string
	MediaUrl     string
	MediaType    string
	ThumbnailUrl string
	IsFeatured   bool
	ViewCount    int
}
