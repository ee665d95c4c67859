package store

import (
	"context"

	"github.com/Luismorlan/craftvalley/model"
	Logger "github.com/Luismorlan/craftvalley/utils/log"
	"github.com/Luismorlan/craftvalley/view"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProjectFilters narrows a project listing. Zero fields are ignored.
type ProjectFilters struct {
	Status  []model.ProjectStatus
	TribeId string
	Tags    []string
}

// ListProjects returns projects visible to the viewer, newest-created
// first. With a viewer id the result is rows owned by the viewer OR
// flagged public; without one, only public rows. A private row owned
// by someone else is never returned.
func (s *Store) ListProjects(ctx context.Context, viewerId string, filters ProjectFilters) ([]view.Project, error) {
	q := s.db.WithContext(ctx).Model(&model.Project{}).Order("created_at DESC")
	if viewerId != "" {
		q = q.Where("user_id = ? OR is_public = ?", viewerId, true)
	} else {
		q = q.Where("is_public = ?", true)
	}
	if len(filters.Status) > 0 {
		q = q.Where("status IN ?", filters.Status)
	}
	if filters.TribeId != "" {
		q = q.Where("tribe_id = ?", filters.TribeId)
	}
	if len(filters.Tags) > 0 {
		q = q.Where("tags && ?", pq.StringArray(filters.Tags))
	}

	var rows []model.Project
	if err := q.Find(&rows).Error; err != nil {
		Logger.Log.Error("fail to list projects: ", err)
		return nil, errors.Wrap(err, "list projects")
	}

	return s.projectsWithCounts(ctx, rows)
}

// GetProject fetches one project by id.
func (s *Store) GetProject(ctx context.Context, id string) (*view.Project, error) {
	var row model.Project
	res := s.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "project %s", id)
	}
	if res.Error != nil {
		Logger.Log.Error("fail to fetch project: ", res.Error)
		return nil, errors.Wrap(res.Error, "fetch project")
	}
	views, err := s.projectsWithCounts(ctx, []model.Project{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// CreateProject inserts a new project owned by row.UserID. The store
// assigns the id and timestamps. Status defaults to planning and must
// be a defined enum value when supplied.
func (s *Store) CreateProject(ctx context.Context, row model.Project) (*view.Project, error) {
	if row.UserID == "" || row.Name == "" {
		return nil, errors.Wrap(ErrInvalid, "project needs an owner and a name")
	}
	if row.Status == "" {
		row.Status = model.ProjectStatusPlanning
	}
	if !row.Status.IsValid() {
		return nil, errors.Wrapf(ErrInvalid, "unknown project status %q", row.Status)
	}
	row.Id = uuid.New().String()

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		Logger.Log.Error("fail to create project: ", err)
		return nil, errors.Wrap(err, "create project")
	}
	p := view.ProjectFromRow(row)
	return &p, nil
}

// UpdateProject applies a sparse patch; only supplied fields change.
// The owner is immutable and not patchable.
func (s *Store) UpdateProject(ctx context.Context, id string, patch view.ProjectPatch) (*view.Project, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, errors.Wrapf(ErrInvalid, "unknown project status %q", *patch.Status)
	}

	cols := patch.Columns()
	if len(cols) > 0 {
		res := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			Logger.Log.Error("fail to update project: ", res.Error)
			return nil, errors.Wrap(res.Error, "update project")
		}
		if res.RowsAffected == 0 {
			return nil, errors.Wrapf(ErrNotFound, "project %s", id)
		}
	}
	return s.GetProject(ctx, id)
}

// DeleteProject hard-deletes a project. Channels and blocks cascade
// at the store level.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id)
	if res.Error != nil {
		Logger.Log.Error("fail to delete project: ", res.Error)
		return errors.Wrap(res.Error, "delete project")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "project %s", id)
	}
	return nil
}

// projectsWithCounts maps rows to view models and batch-fetches the
// derived channel/block/post counts for the whole page in three
// grouped queries instead of per-row lookups.
func (s *Store) projectsWithCounts(ctx context.Context, rows []model.Project) ([]view.Project, error) {
	views := make([]view.Project, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Id)
	}

	db := s.db.WithContext(ctx)
	channelCounts, err := groupCount(db.Model(&model.Channel{}).
		Select("project_id AS id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id"))
	if err != nil {
		Logger.Log.Error("fail to count channels: ", err)
		return nil, errors.Wrap(err, "count channels")
	}
	blockCounts, err := groupCount(db.Model(&model.Block{}).
		Select("channels.project_id AS id, COUNT(*) AS total").
		Joins("JOIN channels ON channels.id = blocks.channel_id").
		Where("channels.project_id IN ?", ids).
		Group("channels.project_id"))
	if err != nil {
		Logger.Log.Error("fail to count blocks: ", err)
		return nil, errors.Wrap(err, "count blocks")
	}
	postCounts, err := groupCount(db.Model(&model.Post{}).
		Select("project_id AS id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id"))
	if err != nil {
		Logger.Log.Error("fail to count posts: ", err)
		return nil, errors.Wrap(err, "count posts")
	}

	for _, row := range rows {
		p := view.ProjectFromRow(row)
		p.ChannelCount = channelCounts[row.Id]
		p.BlockCount = blockCounts[row.Id]
		p.PostCount = postCounts[row.Id]
		views = append(views, p)
	}
	return views, nil
}

// groupCount runs an id/total grouped query and folds it into a map.
func groupCount(q *gorm.DB) (map[string]int, error) {
	var buckets []struct {
		Id    string
		Total int
	}
	if err := q.Scan(&buckets).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b.Id] = b.Total
	}
	return counts, nil
}
