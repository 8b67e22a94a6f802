package services

import (
	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

// ProjectLogCap is the number of audit entries kept per project. Appending
// beyond the cap prunes the oldest entries in the same transaction.
const ProjectLogCap = 50

type ProjectLogService struct {
	db *gorm.DB
}

func NewProjectLogService(db *gorm.DB) *ProjectLogService {
	return &ProjectLogService{db: db}
}

// Append writes one audit entry and prunes the project's log to the cap.
func (s *ProjectLogService) Append(projectID uint, userID *uint, message string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return appendLog(tx, projectID, userID, message)
	})
}

// List returns a project's audit log, newest first. Requires the owner or an
// admin; the log records moderation actions and is not member-visible.
func (s *ProjectLogService) List(projectID, actorID uint) ([]models.ProjectLog, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	actor := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(actor, authz.ActionModerateReports) {
		return nil, response.NewForbidden()
	}

	var logs []models.ProjectLog
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// appendLog is the transactional form used by services that log as part of a
// larger state transition.
func appendLog(tx *gorm.DB, projectID uint, userID *uint, message string) error {
	entry := models.ProjectLog{ProjectID: projectID, UserID: userID, Message: message}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return pruneProjectLogs(tx, projectID, ProjectLogCap)
}

// pruneProjectLogs deletes the oldest entries beyond limit, leaving exactly
// min(count, limit) most-recent rows.
func pruneProjectLogs(tx *gorm.DB, projectID uint, limit int) error {
	var count int64
	if err := tx.Model(&models.ProjectLog{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return err
	}

	excess := int(count) - limit
	if excess <= 0 {
		return nil
	}

	var ids []uint
	if err := tx.Model(&models.ProjectLog{}).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Limit(excess).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	return tx.Delete(&models.ProjectLog{}, ids).Error
}
