package view

import (
	"testing"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestProfileFromRowDefaults(t *testing.T) {
	p := ProfileFromRow(model.Profile{Id: "u-1"})

	assert.Equal(t, "u-1", p.Id)
	assert.Equal(t, "", p.Username)
	assert.NotNil(t, p.Skills)
	assert.Equal(t, 0, len(p.Skills))
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProfileFromRow(t *testing.T) {
	username := "ada"
	row := model.Profile{
		Id:                      "u-2",
		Username:                &username,
		FullName:                "Ada L",
		Skills:                  pq.StringArray{"sculpture", "paint"},
		LookingForCollaboration: true,
	}

	p := ProfileFromRow(row)
	assert.Equal(t, "ada", p.Username)
	assert.Equal(t, "Ada L", p.FullName)
	assert.Equal(t, []string{"sculpture", "paint"}, p.Skills)
	assert.True(t, p.LookingForCollaboration)
}

func TestProfilePatchColumns(t *testing.T) {
	bio := "hello"
	looking := true
	patch := ProfilePatch{
		Bio:                     &bio,
		LookingForCollaboration: &looking,
		Skills:                  &[]string{"ink"},
	}

	cols := patch.Columns()
	assert.Equal(t, 3, len(cols))
	assert.Equal(t, "hello", cols["bio"])
	assert.Equal(t, true, cols["looking_for_collaboration"])
	assert.Equal(t, pq.StringArray{"ink"}, cols["skills"])
	_, ok := cols["username"]
	assert.False(t, ok)
}
