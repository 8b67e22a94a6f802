package models

import (
	"time"
)

// Task is a project-scoped work item.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// WasEdited reports whether the task was modified after creation.
func (t *Task) WasEdited() bool {
	return t.UpdatedAt.Sub(t.CreatedAt) > time.Second
}

// TaskAssignment links a task to an assignee. A user can be assigned a given
// task at most once.
type TaskAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `gorm:"uniqueIndex:idx_assignment_task_assignee;not null" json:"task_id"`
	Task       *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	AssigneeID uint      `gorm:"uniqueIndex:idx_assignment_task_assignee;not null" json:"assignee_id"`
	Assignee   *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	AssignerID uint      `gorm:"not null" json:"assigner_id"`
	Assigner   *User     `gorm:"foreignKey:AssignerID" json:"assigner,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TaskAssignment) TableName() string { return "task_assignments" }
