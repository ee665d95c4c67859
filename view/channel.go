package view

import (
	"time"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/jinzhu/copier"
)

type Channel struct {
	Id          string    `json:"id"`
	ProjectId   string    `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	OrderIndex  int       `json:"orderIndex"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	BlockCount  int       `json:"blockCount"`
}

func ChannelFromRow(row model.Channel, blockCount int) Channel {
	var c Channel
	copier.Copy(&c, &row)
	c.ProjectId = row.ProjectID
	c.CreatedAt = orNow(row.CreatedAt)
	c.UpdatedAt = orNow(row.UpdatedAt)
	c.BlockCount = blockCount
	return c
}
