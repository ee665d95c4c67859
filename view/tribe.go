package view

import (
	"time"

	"github.com/Luismorlan/craftvalley/model"
)

// TribeViewerContext carries the viewer-relative fields derived from
// membership rows. The zero value renders a tribe for an anonymous
// viewer.
type TribeViewerContext struct {
	IsMember bool
	Role     model.TribeRole
}

type Tribe struct {
	Id            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	CoverImageUrl string          `json:"coverImageUrl,omitempty"`
	IconUrl       string          `json:"iconUrl,omitempty"`
	CreatorId     string          `json:"creatorId"`
	IsPublic      bool            `json:"isPublic"`
	MemberCount   int             `json:"memberCount"`
	PostCount     int             `json:"postCount"`
	Tags          []string        `json:"tags"`
	Rules         []string        `json:"rules"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Creator       *Profile        `json:"creator,omitempty"`
	IsMember      bool            `json:"isMember"`
	UserRole      model.TribeRole `json:"userRole,omitempty"`
}

func TribeFromRow(row model.Tribe, viewer TribeViewerContext) Tribe {
	t := Tribe{
		Id:            row.Id,
		Name:          row.Name,
		Slug:          row.Slug,
		Description:   row.Description,
		CoverImageUrl: row.CoverImageUrl,
		IconUrl:       row.IconUrl,
		CreatorId:     row.CreatorID,
		IsPublic:      row.IsPublic,
		MemberCount:   row.MemberCount,
		PostCount:     row.PostCount,
		Tags:          []string(row.Tags),
		Rules:         []string(row.Rules),
		CreatedAt:     orNow(row.CreatedAt),
		UpdatedAt:     orNow(row.UpdatedAt),
		IsMember:      viewer.IsMember,
		UserRole:      viewer.Role,
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Rules == nil {
		t.Rules = []string{}
	}
	if row.Creator.Id != "" {
		c := ProfileFromRow(row.Creator)
		t.Creator = &c
	}
	return t
}
