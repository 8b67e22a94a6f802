package services

import (
	"fmt"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateProjectRequest struct {
	Title       string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

// List returns the projects visible to the user: public ones, their own, and
// the ones they collaborate on.
func (s *ProjectService) List(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.
		Where("is_public = ?", true).
		Or("owner_id = ?", userID).
		Or("id IN (?)", s.db.Model(&models.Membership{}).Select("project_id").Where("user_id = ?", userID)).
		Preload("Owner").
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Get returns one project if the user may view it.
func (s *ProjectService) Get(projectID, userID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Owner").First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, userID)
	if !authz.CanView(role, &project) {
		return nil, response.NewForbidden()
	}
	return &project, nil
}

// Create creates a project owned by the acting user.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
		IsPublic:    req.IsPublic,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return appendLog(tx, project.ID, &userID, fmt.Sprintf("project %q created", project.Title))
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update changes a project's fields. Owner only.
func (s *ProjectService) Update(projectID uint, req *UpdateProjectRequest, userID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, userID)
	if !authz.Can(role, authz.ActionEditProject) {
		return nil, response.NewForbidden()
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project and everything it owns: tasks (with assignments),
// comments (with reports), files, memberships, bans, access requests and logs.
// Owner only.
func (s *ProjectService) Delete(projectID, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, userID)
	if !authz.Can(role, authz.ActionDeleteProject) {
		return response.NewForbidden()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskPin{}).Error; err != nil {
			return err
		}
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("project_id = ?", projectID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		fileIDs := tx.Model(&models.ProjectFile{}).Select("id").Where("project_id = ?", projectID)
		for itemType, ids := range map[string]*gorm.DB{
			models.ReadItemTask:    taskIDs,
			models.ReadItemComment: commentIDs,
			models.ReadItemFile:    fileIDs,
		} {
			if err := tx.Where("item_type = ? AND item_id IN (?)", itemType, ids).
				Delete(&models.ReadMark{}).Error; err != nil {
				return err
			}
		}
		for _, child := range []interface{}{
			&models.Task{},
			&models.Comment{},
			&models.ProjectFile{},
			&models.Membership{},
			&models.Ban{},
			&models.AccessRequest{},
			&models.ProjectLog{},
		} {
			if err := tx.Where("project_id = ?", projectID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, projectID).Error
	})
}
