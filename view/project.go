package view

import (
	"time"

	"github.com/Luismorlan/craftvalley/model"
)

/*

Project is the view model of model.Project.

Derived counts (ChannelCount/BlockCount/PostCount) are computed by the
store at read time by joining, never stored authoritatively on the row.
*/
type Project struct {
	Id            string              `json:"id"`
	UserId        string              `json:"userId"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Color         string              `json:"color"`
	Status        model.ProjectStatus `json:"status"`
	IsPublic      bool                `json:"isPublic"`
	Tags          []string            `json:"tags"`
	CoverImageUrl string              `json:"coverImageUrl,omitempty"`
	TribeId       string              `json:"tribeId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	ChannelCount  int                 `json:"channelCount"`
	BlockCount    int                 `json:"blockCount"`
	PostCount     int                 `json:"postCount"`
}

// ProjectFromRow maps a persisted row to its view model. Every
// optional field gets its documented default: empty description stays
// "", a missing color becomes DefaultProjectColor, nil tags become an
// empty slice and zero instants become now.
func ProjectFromRow(row model.Project) Project {
	p := Project{
		Id:          row.Id,
		UserId:      row.UserID,
		Name:        row.Name,
		Description: row.Description,
		Color:       row.Color,
		Status:      row.Status,
		IsPublic:    row.IsPublic,
		Tags:        []string(row.Tags),
		CreatedAt:   orNow(row.CreatedAt),
		UpdatedAt:   orNow(row.UpdatedAt),
	}
	if p.Color == "" {
		p.Color = DefaultProjectColor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if row.CoverImageUrl != nil {
		p.CoverImageUrl = *row.CoverImageUrl
	}
	if row.TribeID != nil {
		p.TribeId = *row.TribeID
	}
	return p
}

/*

ProjectPatch is a sparse partial update of a project. A nil field is
"not present" and produces no column, which is how the persisted patch
distinguishes "unset" from "set to the zero value".

The owner (user_id) is immutable after creation and deliberately has
no patch field.
*/
type ProjectPatch struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Color         *string              `json:"color"`
	Status        *model.ProjectStatus `json:"status"`
	IsPublic      *bool                `json:"isPublic"`
	Tags          *[]string            `json:"tags"`
	CoverImageUrl *string              `json:"coverImageUrl"`
	TribeId       *string              `json:"tribeId"`
}

// Columns translates the set fields of the patch to their snake_case
// column names. Keys absent from the patch are absent from the output.
func (p ProjectPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.IsPublic != nil {
		cols["is_public"] = *p.IsPublic
	}
	if p.Tags != nil {
		cols["tags"] = pqArray(*p.Tags)
	}
	if p.CoverImageUrl != nil {
		cols["cover_image_url"] = *p.CoverImageUrl
	}
	if p.TribeId != nil {
		cols["tribe_id"] = *p.TribeId
	}
	return cols
}
