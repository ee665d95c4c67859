package model

import (
	"time"

	"gorm.io/datatypes"
)

type BlockType string

const (
	BlockTypeImage BlockType = "image"
	BlockTypeLink  BlockType = "link"
	BlockTypeText  BlockType = "text"
	BlockTypeVideo BlockType = "video"
	BlockTypeAudio BlockType = "audio"
	BlockTypeFile  BlockType = "file"
)

func (t BlockType) IsValid() bool {
	switch t {
	case BlockTypeImage, BlockTypeLink, BlockTypeText, BlockTypeVideo, BlockTypeAudio, BlockTypeFile:
		return true
	}
	return false
}

/*

Block is a single typed content item nested under a Channel.

Id: primary key, use to identify a block
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated
ChannelID:
Channel: the owning channel, "belongs-to" relation. Blocks cascade on
channel delete.

Type: one of image/link/text/video/audio/file
Title: optional title
Content: text or URL depending on Type
Description: optional free text
Metadata: free-form JSON metadata map
OrderIndex: display order among siblings, same discipline as
Channel.OrderIndex. No reordering operation is exposed.
*/
type Block struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ChannelID   string  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Channel     Channel `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Type        BlockType
	Title       string
	Content     string
	Description string
	Metadata    datatypes.JSON
	OrderIndex  int
}
