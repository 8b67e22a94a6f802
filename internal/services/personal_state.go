package services

import (
	"errors"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

// PersonalStateService manages per-user view state on project content: pinned
// tasks and read marks. Rows are personal and never affect other members.
type PersonalStateService struct {
	db *gorm.DB
}

func NewPersonalStateService(db *gorm.DB) *PersonalStateService {
	return &PersonalStateService{db: db}
}

// PinTask pins a task for the user. Pinning an already pinned task is a no-op.
func (s *PersonalStateService) PinTask(taskID, userID uint) (*models.TaskPin, error) {
	if err := s.requireTaskView(taskID, userID); err != nil {
		return nil, err
	}

	pin := models.TaskPin{TaskID: taskID, UserID: userID}
	if err := s.db.Where(pin).FirstOrCreate(&pin).Error; err != nil {
		return nil, err
	}
	return &pin, nil
}

// UnpinTask removes the user's pin from a task.
func (s *PersonalStateService) UnpinTask(taskID, userID uint) error {
	result := s.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskPin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("pin not found")
	}
	return nil
}

// PinnedTasks returns the user's pinned tasks, most recently pinned first.
func (s *PersonalStateService) PinnedTasks(userID uint) ([]models.Task, error) {
	var pins []models.TaskPin
	if err := s.db.Where("user_id = ?", userID).
		Preload("Task").
		Order("created_at DESC").
		Find(&pins).Error; err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(pins))
	for _, pin := range pins {
		if pin.Task != nil {
			tasks = append(tasks, *pin.Task)
		}
	}
	return tasks, nil
}

// MarkRead records that the user has seen a task, comment or file. Marking
// twice is a no-op.
func (s *PersonalStateService) MarkRead(itemType string, itemID, userID uint) (*models.ReadMark, error) {
	projectID, err := s.itemProject(itemType, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireView(projectID, userID); err != nil {
		return nil, err
	}

	mark := models.ReadMark{UserID: userID, ItemType: itemType, ItemID: itemID}
	if err := s.db.Where(mark).FirstOrCreate(&mark).Error; err != nil {
		return nil, err
	}
	return &mark, nil
}

// itemProject maps a readable item to its project.
func (s *PersonalStateService) itemProject(itemType string, itemID uint) (uint, error) {
	switch itemType {
	case models.ReadItemTask:
		var task models.Task
		if err := s.db.First(&task, itemID).Error; err != nil {
			return 0, response.NewNotFound("task not found")
		}
		return task.ProjectID, nil
	case models.ReadItemComment:
		var comment models.Comment
		if err := s.db.First(&comment, itemID).Error; err != nil {
			return 0, response.NewNotFound("comment not found")
		}
		return comment.ProjectID, nil
	case models.ReadItemFile:
		var file models.ProjectFile
		if err := s.db.First(&file, itemID).Error; err != nil {
			return 0, response.NewNotFound("file not found")
		}
		return file.ProjectID, nil
	default:
		return 0, response.NewBadRequest("invalid item type")
	}
}

func (s *PersonalStateService) requireTaskView(taskID, userID uint) error {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("task not found")
		}
		return err
	}
	return s.requireView(task.ProjectID, userID)
}

func (s *PersonalStateService) requireView(projectID, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, userID)
	if !authz.CanView(role, &project) {
		return response.NewForbidden()
	}
	return nil
}
