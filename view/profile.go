package view

import (
	"time"

	"github.com/Luismorlan/craftvalley/model"
	"github.com/jinzhu/copier"
	"github.com/lib/pq"
)

// pqArray converts a view tag slice back to the column type, an empty
// slice is stored as an empty array rather than NULL.
func pqArray(tags []string) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(tags)
}

type Profile struct {
	Id                      string    `json:"id"`
	Username                string    `json:"username,omitempty"`
	FullName                string    `json:"fullName"`
	AvatarUrl               string    `json:"avatarUrl,omitempty"`
	Bio                     string    `json:"bio"`
	Location                string    `json:"location"`
	Website                 string    `json:"website,omitempty"`
	PortfolioUrl            string    `json:"portfolioUrl,omitempty"`
	Skills                  []string  `json:"skills"`
	CreativePhilosophy      string    `json:"creativePhilosophy"`
	LookingForCollaboration bool      `json:"lookingForCollaboration"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// ProfileFromRow is a pass-through mapping, the row and view carry the
// same fields so the copy is delegated and only defaults are fixed up.
func ProfileFromRow(row model.Profile) Profile {
	var p Profile
	copier.Copy(&p, &row)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	p.CreatedAt = orNow(row.CreatedAt)
	p.UpdatedAt = orNow(row.UpdatedAt)
	return p
}

// ProfilePatch is a sparse partial update of a profile, same nil-means
// -absent discipline as ProjectPatch.
type ProfilePatch struct {
	Username                *string   `json:"username"`
	FullName                *string   `json:"fullName"`
	AvatarUrl               *string   `json:"avatarUrl"`
	Bio                     *string   `json:"bio"`
	Location                *string   `json:"location"`
	Website                 *string   `json:"website"`
	PortfolioUrl            *string   `json:"portfolioUrl"`
	Skills                  *[]string `json:"skills"`
	CreativePhilosophy      *string   `json:"creativePhilosophy"`
	LookingForCollaboration *bool     `json:"lookingForCollaboration"`
}

func (p ProfilePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Username != nil {
		cols["username"] = *p.Username
	}
	if p.FullName != nil {
		cols["full_name"] = *p.FullName
	}
	if p.AvatarUrl != nil {
		cols["avatar_url"] = *p.AvatarUrl
	}
	if p.Bio != nil {
		cols["bio"] = *p.Bio
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Website != nil {
		cols["website"] = *p.Website
	}
	if p.PortfolioUrl != nil {
		cols["portfolio_url"] = *p.PortfolioUrl
	}
	if p.Skills != nil {
		cols["skills"] = pqArray(*p.Skills)
	}
	if p.CreativePhilosophy != nil {
		cols["creative_philosophy"] = *p.CreativePhilosophy
	}
	if p.LookingForCollaboration != nil {
		cols["looking_for_collaboration"] = *p.LookingForCollaboration
	}
	return cols
}
