package view

import (
	"time"

	"github.com/Luismorlan/craftvalley/model"
)

/*

Post is the view model of one pulse feed entry.

LikeCount/CommentCount are derived by the store in a single batched
query per page. IsLiked is viewer-relative and false for anonymous
viewers. IsSaved is a placeholder that is not yet wired to the
viewer's identity.
*/
type Post struct {
	Id           string         `json:"id"`
	UserId       string         `json:"userId"`
	ProjectId    string         `json:"projectId,omitempty"`
	TribeId      string         `json:"tribeId,omitempty"`
	Type         model.PostType `json:"type"`
	Title        string         `json:"title,omitempty"`
	Content      string         `json:"content"`
	MediaUrl     string         `json:"mediaUrl,omitempty"`
	MediaType    string         `json:"mediaType,omitempty"`
	ThumbnailUrl string         `json:"thumbnailUrl,omitempty"`
	IsFeatured   bool           `json:"isFeatured"`
	ViewCount    int            `json:"viewCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	User         *Profile       `json:"user,omitempty"`
	Project      *Project       `json:"project,omitempty"`
	Tribe        *Tribe         `json:"tribe,omitempty"`
	LikeCount    int            `json:"likeCount"`
	CommentCount int            `json:"commentCount"`
	IsLiked      bool           `json:"isLiked"`
	IsSaved      bool           `json:"isSaved"`
}

// PostEngagement carries the derived, per-viewer portion of a post
// view model.
type PostEngagement struct {
	LikeCount    int
	CommentCount int
	IsLiked      bool
}

func PostFromRow(row model.Post, eng PostEngagement) Post {
	p := Post{
		Id:           row.Id,
		UserId:       row.UserID,
		Type:         row.Type,
		Title:        row.Title,
		Content:      row.Content,
		MediaUrl:     row.MediaUrl,
		MediaType:    row.MediaType,
		ThumbnailUrl: row.ThumbnailUrl,
		IsFeatured:   row.IsFeatured,
		ViewCount:    row.ViewCount,
		CreatedAt:    orNow(row.CreatedAt),
		UpdatedAt:    orNow(row.UpdatedAt),
		LikeCount:    eng.LikeCount,
		CommentCount: eng.CommentCount,
		IsLiked:      eng.IsLiked,
	}
	if row.ProjectID != nil {
		p.ProjectId = *row.ProjectID
	}
	if row.TribeID != nil {
		p.TribeId = *row.TribeID
	}
	if row.User.Id != "" {
		u := ProfileFromRow(row.User)
		p.User = &u
	}
	if row.Project != nil {
		pr := ProjectFromRow(*row.Project)
		p.Project = &pr
	}
	if row.Tribe != nil {
		t := TribeFromRow(*row.Tribe, TribeViewerContext{})
		p.Tribe = &t
	}
	return p
}
