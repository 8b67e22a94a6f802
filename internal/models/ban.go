package models

import (
	"time"
)

// Ban excludes a user from a project. Role records the membership role the
// user held at ban time; the membership row is deleted in the same transaction
// that creates the ban.
type Ban struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"uniqueIndex:idx_ban_project_user;not null" json:"project_id"`
	Project    *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID     uint      `gorm:"uniqueIndex:idx_ban_project_user;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BannedByID uint      `gorm:"not null" json:"banned_by_id"`
	BannedBy   *User     `gorm:"foreignKey:BannedByID" json:"banned_by,omitempty"`
	Role       string    `gorm:"size:20;default:viewer" json:"role"` // role held at ban time
	Reason     string    `gorm:"type:text" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Ban) TableName() string { return "bans" }
