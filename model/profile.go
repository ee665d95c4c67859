package model

import (
	"time"

	"github.com/lib/pq"
)

/*

Profile is the public identity of a creator.

Id: primary key, equals the identity id issued by the hosted auth
provider. A profile row is provisioned lazily on the first successful
sign-in and is never hard-deleted by the application.
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

Username: optional unique handle, the canonical public-routing key for
the profile page (/u/<username>). Uniqueness is backed by the store
index; the application additionally pre-checks on update.
FullName: display name
AvatarUrl: avatar image reference
Bio: short self description in plain text
Location: free-form location text
Website: personal website url
PortfolioUrl: external portfolio url
Skills: ordered set of skill tags
CreativePhilosophy: free-text statement shown on the profile page
LookingForCollaboration: whether the creator is open to collaboration
*/
type Profile struct {
	Id                      string `gorm:"primaryKey"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
	Username                *string `gorm:"uniqueIndex"`
	FullName                string
	AvatarUrl               string
	Bio                     string
	Location                string
	Website                 string
	PortfolioUrl            string
	Skills                  pq.StringArray `gorm:"type:text[]"`
	CreativePhilosophy      string
	LookingForCollaboration bool
}
