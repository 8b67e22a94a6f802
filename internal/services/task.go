package services

import (
	"errors"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// List returns a project's tasks, oldest first, for anyone who may view it.
func (s *TaskService) List(projectID, actorID uint) ([]models.Task, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.CanView(role, &project) {
		return nil, response.NewForbidden()
	}

	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).
		Preload("CreatedBy").
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create adds a task. Content mutation, so editor and above.
func (s *TaskService) Create(projectID uint, title string, actorID uint) (*models.Task, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(role, authz.ActionMutateContent) {
		return nil, response.NewForbidden()
	}

	task := models.Task{ProjectID: projectID, Title: title, CreatedByID: actorID}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update renames a task.
func (s *TaskService) Update(taskID uint, title string, actorID uint) (*models.Task, error) {
	task, err := s.authorizeMutation(taskID, actorID)
	if err != nil {
		return nil, err
	}

	task.Title = title
	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips a task's completion status.
func (s *TaskService) Toggle(taskID, actorID uint) (*models.Task, error) {
	task, err := s.authorizeMutation(taskID, actorID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task and its assignments.
func (s *TaskService) Delete(taskID, actorID uint) error {
	task, err := s.authorizeMutation(taskID, actorID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskPin{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_type = ? AND item_id = ?", models.ReadItemTask, task.ID).
			Delete(&models.ReadMark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, task.ID).Error
	})
}

// Assign assigns a task to a project member. The assignee must hold a role on
// the project; assigning the same task twice to one user is a conflict.
func (s *TaskService) Assign(taskID, assigneeID, actorID uint) (*models.TaskAssignment, error) {
	task, err := s.authorizeMutation(taskID, actorID)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, task.ProjectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}
	if authz.ResolveRole(s.db, &project, assigneeID) == authz.RoleNone {
		return nil, response.NewBadRequest("assignee is not a member of this project")
	}

	var existing models.TaskAssignment
	err = s.db.Where("task_id = ? AND assignee_id = ?", taskID, assigneeID).First(&existing).Error
	if err == nil {
		return nil, response.NewConflict("task already assigned to this user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assignment := models.TaskAssignment{TaskID: taskID, AssigneeID: assigneeID, AssignerID: actorID}
	if err := s.db.Create(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Unassign removes a task assignment.
func (s *TaskService) Unassign(taskID, assigneeID, actorID uint) error {
	if _, err := s.authorizeMutation(taskID, actorID); err != nil {
		return err
	}

	result := s.db.Where("task_id = ? AND assignee_id = ?", taskID, assigneeID).
		Delete(&models.TaskAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("assignment not found")
	}
	return nil
}

// authorizeMutation loads the task and checks the actor may mutate content on
// its project.
func (s *TaskService) authorizeMutation(taskID, actorID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Project").First(&task, taskID).Error; err != nil {
		return nil, response.NewNotFound("task not found")
	}

	role := authz.ResolveRole(s.db, task.Project, actorID)
	if !authz.Can(role, authz.ActionMutateContent) {
		return nil, response.NewForbidden()
	}
	return &task, nil
}
