package view

import (
	"encoding/json"
	"time"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/jinzhu/copier"
)

type Block struct {
	Id          string                 `json:"id"`
	ChannelId   string                 `json:"channelId"`
	Type        model.BlockType        `json:"type"`
	Title       string                 `json:"title,omitempty"`
	Content     string                 `json:"content"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
	OrderIndex  int                    `json:"orderIndex"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func BlockFromRow(row model.Block) Block {
	var b Block
	copier.Copy(&b, &row)
	b.ChannelId = row.ChannelID
	b.CreatedAt = orNow(row.CreatedAt)
	b.UpdatedAt = orNow(row.UpdatedAt)
	b.Metadata = map[string]interface{}{}
	if len(row.Metadata) > 0 {
		// Malformed metadata degrades to an empty map, the block
		// itself still renders.
		json.Unmarshal(row.Metadata, &b.Metadata)
	}
	return b
}
