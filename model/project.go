package model

import (
	"time"

	"github.com/lib/pq"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPaused    ProjectStatus = "paused"
)

// IsValid returns true iff the status is one of the defined enum
// values. Writes with any other value must be rejected.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusPaused:
		return true
	}
	return false
}

/*

Project is a creator's workspace, the parent of Channels and Blocks.

Id: primary key, use to identify a project
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated
UserID:
User: owner of the project, "belongs-to" relation. Immutable after
creation, only the owner may mutate or delete the project.

Name: project's display name
Description: optional free text
Color: presentation-only color tag
Status: one of planning/active/completed/paused
IsPublic: visibility flag, private projects are only listed to their owner
Tags: optional tag set
CoverImageUrl: optional cover image reference
TribeID:
Tribe: optional owning tribe, "belongs-to" relation

Channel and block rows cascade on project delete at the store level,
the application does not re-enforce the cascade.
*/
type Project struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User          Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string
	Description   string
	Color         string
	Status        ProjectStatus
	IsPublic      bool
	Tags          pq.StringArray `gorm:"type:text[]"`
	CoverImageUrl *string
	TribeID       *string
	Tribe         *Tribe `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
