package store

import (
	"context"
	"testing"
	"time"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectDefaults(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")

	start := time.Now()
	project, err := s.CreateProject(context.Background(), model.Project{
		UserID:   "user-1",
		Name:     "Demo",
		IsPublic: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, project.Id)
	assert.Equal(t, model.ProjectStatusPlanning, project.Status)
	assert.Equal(t, view.DefaultProjectColor, project.Color)
	assert.False(t, project.CreatedAt.Before(start))
	assert.Equal(t, []string{}, project.Tags)
}

func TestCreateProjectValidation(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")

	_, err := s.CreateProject(context.Background(), model.Project{UserID: "user-1"})
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = s.CreateProject(context.Background(), model.Project{
		UserID: "user-1",
		Name:   "Demo",
		Status: model.ProjectStatus("launching"),
	})
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestListProjectsVisibility(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "owner")
	seedProfile(t, db, "visitor")
	seedProject(t, s, "owner", "public project", true)
	secret := seedProject(t, s, "owner", "secret project", false)

	// The owner sees both rows.
	mine, err := s.ListProjects(context.Background(), "owner", ProjectFilters{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Nobody else ever sees a private row that isn't theirs.
	for _, viewer := range []string{"visitor", ""} {
		projects, err := s.ListProjects(context.Background(), viewer, ProjectFilters{})
		require.NoError(t, err)
		require.Len(t, projects, 1)
		for _, p := range projects {
			assert.False(t, !p.IsPublic && p.UserId != viewer)
			assert.NotEqual(t, secret.Id, p.Id)
		}
	}
}

func TestListProjectsFilters(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")

	_, err := s.CreateProject(context.Background(), model.Project{
		UserID:   "user-1",
		Name:     "painting",
		Status:   model.ProjectStatusActive,
		IsPublic: true,
		Tags:     []string{"art", "oil"},
	})
	require.NoError(t, err)
	_, err = s.CreateProject(context.Background(), model.Project{
		UserID:   "user-1",
		Name:     "sculpture",
		Status:   model.ProjectStatusCompleted,
		IsPublic: true,
		Tags:     []string{"clay"},
	})
	require.NoError(t, err)

	active, err := s.ListProjects(context.Background(), "user-1", ProjectFilters{
		Status: []model.ProjectStatus{model.ProjectStatusActive},
	})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "painting", active[0].Name)

	tagged, err := s.ListProjects(context.Background(), "user-1", ProjectFilters{
		Tags: []string{"clay", "stone"},
	})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "sculpture", tagged[0].Name)
}

func TestListProjectsDerivedCounts(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "counted", true)
	other := seedProject(t, s, "user-1", "empty", true)

	channel := seedChannel(t, s, project.Id, "inspiration")
	seedChannel(t, s, project.Id, "progress")
	for i := 0; i < 3; i++ {
		_, err := s.CreateBlock(context.Background(), model.Block{
			ChannelID: channel.Id,
			Type:      model.BlockTypeText,
			Content:   "note",
		})
		require.NoError(t, err)
	}

	projects, err := s.ListProjects(context.Background(), "user-1", ProjectFilters{})
	require.NoError(t, err)
	byId := map[string]view.Project{}
	for _, p := range projects {
		byId[p.Id] = p
	}

	assert.Equal(t, 2, byId[project.Id].ChannelCount)
	assert.Equal(t, 3, byId[project.Id].BlockCount)
	assert.Equal(t, 0, byId[other.Id].ChannelCount)
	assert.Equal(t, 0, byId[other.Id].BlockCount)
}

func TestUpdateProjectPatch(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", false)

	status := model.ProjectStatusActive
	public := true
	updated, err := s.UpdateProject(context.Background(), project.Id, view.ProjectPatch{
		Status:   &status,
		IsPublic: &public,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusActive, updated.Status)
	assert.True(t, updated.IsPublic)
	// Untouched fields survive the patch.
	assert.Equal(t, "Demo", updated.Name)

	_, err = s.UpdateProject(context.Background(), "missing", view.ProjectPatch{Status: &status})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteProject(t *testing.T) {
	s, db := newTestStore(t)
	seedProfile(t, db, "user-1")
	project := seedProject(t, s, "user-1", "Demo", true)

	require.NoError(t, s.DeleteProject(context.Background(), project.Id))

	_, err := s.GetProject(context.Background(), project.Id)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteProject(context.Background(), project.Id), ErrNotFound))
}
