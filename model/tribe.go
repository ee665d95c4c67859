package model

import (
	"time"

	"github.com/lib/pq"
)

/*

Tribe is a named community of creators.

Id: primary key, use to identify a tribe
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated
CreatorID:
Creator: user who founded this tribe, "belongs-to" relation

Name: tribe's display name
Slug: unique URL segment
Description: free text shown on the tribe page
CoverImageUrl: optional cover image reference
IconUrl: optional icon reference
IsPublic: visibility flag, only public tribes are listed to non-members
MemberCount: number of members, maintained by join/leave
PostCount: number of posts published to the tribe
Tags: optional tag set
Rules: optional ordered list of community rules

Viewer-relative fields (isMember, userRole) are derived from
TribeMembership rows at read time, never stored here.
*/
type Tribe struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatorID     string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Creator       Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string
	Slug          string `gorm:"uniqueIndex"`
	Description   string
	CoverImageUrl string
	IconUrl       string
	IsPublic      bool
	MemberCount   int
	PostCount     int
	Tags          pq.StringArray `gorm:"type:text[]"`
	Rules         pq.StringArray `gorm:"type:text[]"`
}
