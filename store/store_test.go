package store

import (
	"context"
	"testing"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/utils"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, _ := utils.CreateTempDB(t)
	return NewStore(db), db
}

func seedProfile(t *testing.T, db *gorm.DB, id string) model.Profile {
	t.Helper()
	row := model.Profile{Id: id, FullName: "Creator " + id}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func seedProject(t *testing.T, s *Store, owner, name string, public bool) view.Project {
	t.Helper()
	project, err := s.CreateProject(context.Background(), model.Project{
		UserID:   owner,
		Name:     name,
		IsPublic: public,
	})
	require.NoError(t, err)
	return *project
}

func seedChannel(t *testing.T, s *Store, projectId, name string) view.Channel {
	t.Helper()
	channel, err := s.CreateChannel(context.Background(), model.Channel{
		ProjectID: projectId,
		Name:      name,
	})
	require.NoError(t, err)
	return *channel
}

func seedTribe(t *testing.T, s *Store, creator, slug string, public bool) view.Tribe {
	t.Helper()
	tribe, err := s.CreateTribe(context.Background(), model.Tribe{
		CreatorID: creator,
		Name:      "Tribe " + slug,
		Slug:      slug,
		IsPublic:  public,
	})
	require.NoError(t, err)
	return *tribe
}

func strPtr(s string) *string { return &s }
