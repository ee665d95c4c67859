package model

import "time"

/*

Channel is an ordered grouping of Blocks within a Project.

Id: primary key, use to identify a channel
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated
ProjectID:
Project: the owning project, "belongs-to" relation. Channels cascade
on project delete.

Name: channel's display name
Description: optional free text
Color: presentation-only color tag
OrderIndex: display order among siblings. Unique and contiguous per
project: creation assigns max(sibling order)+1 and deletion reindexes
the surviving siblings in the same transaction.
*/
type Channel struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProjectID   string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Project     Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name        string
	Description string
	Color       string
	OrderIndex  int
}
