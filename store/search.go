package store

import (
	"context"

	"github.com/Luismorlan/craftvalley/model"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Search goes through the store's server-side procedures
// (search_projects / search_tribes), which own ranking and term
// matching. The procedures return textual timestamps, so the rows are
// scanned into string instants and parsed on the way to the view.

type projectSearchRow struct {
	Id            string
	UserId        string
	Name          string
	Description   string
	Color         string
	Status        model.ProjectStatus
	IsPublic      bool
	Tags          pq.StringArray `gorm:"type:text[]"`
	CoverImageUrl string
	TribeId       string
	CreatedAt     string
	UpdatedAt     string
}

// SearchProjects runs the free-text project search procedure.
func (s *Store) SearchProjects(ctx context.Context, term string) ([]view.Project, error) {
	var rows []projectSearchRow
	res := s.db.WithContext(ctx).
		Raw("SELECT * FROM search_projects(?)", term).
		Scan(&rows)
	if res.Error != nil {
		Logger.Log.Error("fail to search projects: ", res.Error)
		return nil, errors.Wrap(res.Error, "search projects")
	}

	views := make([]view.Project, 0, len(rows))
	for _, row := range rows {
		p := view.Project{
			Id:            row.Id,
			UserId:        row.UserId,
			Name:          row.Name,
			Description:   row.Description,
			Color:         row.Color,
			Status:        row.Status,
			IsPublic:      row.IsPublic,
			Tags:          []string(row.Tags),
			CoverImageUrl: row.CoverImageUrl,
			TribeId:       row.TribeId,
			CreatedAt:     view.ParseInstant(row.CreatedAt),
			UpdatedAt:     view.ParseInstant(row.UpdatedAt),
		}
		if p.Color == "" {
			p.Color = view.DefaultProjectColor
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		views = append(views, p)
	}
	return views, nil
}

type tribeSearchRow struct {
	Id            string
	Name          string
	Slug          string
	Description   string
	CoverImageUrl string
	IconUrl       string
	CreatorId     string
	IsPublic      bool
	MemberCount   int
	PostCount     int
	Tags          pq.StringArray `gorm:"type:text[]"`
	CreatedAt     string
	UpdatedAt     string
}

// SearchTribes runs the free-text tribe search procedure.
func (s *Store) SearchTribes(ctx context.Context, term string) ([]view.Tribe, error) {
	var rows []tribeSearchRow
	res := s.db.WithContext(ctx).
		Raw("SELECT * FROM search_tribes(?)", term).
		Scan(&rows)
	if res.Error != nil {
		Logger.Log.Error("fail to search tribes: ", res.Error)
		return nil, errors.Wrap(res.Error, "search tribes")
	}

	views := make([]view.Tribe, 0, len(rows))
	for _, row := range rows {
		t := view.Tribe{
			Id:            row.Id,
			Name:          row.Name,
			Slug:          row.Slug,
			Description:   row.Description,
			CoverImageUrl: row.CoverImageUrl,
			IconUrl:       row.IconUrl,
			CreatorId:     row.CreatorId,
			IsPublic:      row.IsPublic,
			MemberCount:   row.MemberCount,
			PostCount:     row.PostCount,
			Tags:          []string(row.Tags),
			Rules:         []string{},
			CreatedAt:     view.ParseInstant(row.CreatedAt),
			UpdatedAt:     view.ParseInstant(row.UpdatedAt),
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		views = append(views, t)
	}
	return views, nil
}
