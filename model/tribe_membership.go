package model

import "time"

type TribeRole string

const (
	TribeRoleMember    TribeRole = "member"
	TribeRoleModerator TribeRole = "moderator"
	TribeRoleAdmin     TribeRole = "admin"
)

/*

TribeMembership joins one user to one tribe with a role.

(TribeID, UserID) is unique: joining an already-joined tribe is a
no-op at the store level. CreatedAt doubles as the join timestamp.
*/
type TribeMembership struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	TribeID   string  `gorm:"uniqueIndex:idx_membership_tribe_user;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tribe     Tribe   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    string  `gorm:"uniqueIndex:idx_membership_tribe_user;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User      Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Role      TribeRole
}
