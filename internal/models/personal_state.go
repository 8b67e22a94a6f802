package models

import (
	"time"
)

// TaskPin is a personal pin: each user keeps their own set of pinned tasks.
type TaskPin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"uniqueIndex:idx_pin_task_user;not null" json:"task_id"`
	Task      *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_pin_task_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (TaskPin) TableName() string { return "task_pins" }

// Item types a ReadMark can point at.
const (
	ReadItemTask    = "task"
	ReadItemComment = "comment"
	ReadItemFile    = "file"
)

// ReadMark records that a user has seen an item. One row per (user, item);
// marking again is a no-op.
type ReadMark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_read_user_item;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ItemType  string    `gorm:"uniqueIndex:idx_read_user_item;size:20;not null" json:"item_type"`
	ItemID    uint      `gorm:"uniqueIndex:idx_read_user_item;not null" json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReadMark) TableName() string { return "read_marks" }
