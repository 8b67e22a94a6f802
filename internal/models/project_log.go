package models

import (
	"time"
)

// ProjectLog is one append-only audit entry for a project. Each project keeps
// at most ProjectLogCap entries; older ones are pruned on append. UserID is
// nullable so entries survive user deletion.
type ProjectLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    *uint     `json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ProjectLog) TableName() string { return "project_logs" }
