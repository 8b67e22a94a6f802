package models

import (
	"time"
)

// ProjectFile records an uploaded file. The bytes live on disk under the
// upload dir with StoredName; the original name is kept for display only.
type ProjectFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	Project      *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UploadedByID uint      `gorm:"not null" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	StoredName   string    `gorm:"size:255;not null;uniqueIndex" json:"-"` // UUID-based name on disk
	Size         int64     `json:"size"`
	Description  string    `gorm:"size:255" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ProjectFile) TableName() string { return "project_files" }
