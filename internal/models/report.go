package models

import (
	"time"
)

// Report status values.
const (
	ReportOpen      = "open"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report is a complaint filed against a comment. Re-reporting the same comment
// by the same reporter reopens the existing row instead of creating another.
// Capped per project (scoped through the reported comment).
type Report struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CommentID      uint       `gorm:"not null;index" json:"comment_id"`
	Comment        *Comment   `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	ReporterID     uint       `gorm:"not null;index" json:"reporter_id"`
	Reporter       *User      `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ReportedUserID uint       `gorm:"not null" json:"reported_user_id"`
	ReportedUser   *User      `gorm:"foreignKey:ReportedUserID" json:"reported_user,omitempty"`
	Reason         string     `gorm:"type:text" json:"reason"`
	Status         string     `gorm:"size:10;default:open" json:"status"` // open, resolved, dismissed
	ResolvedByID   *uint      `json:"resolved_by_id"`
	ResolvedBy     *User      `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Report) TableName() string { return "reports" }
