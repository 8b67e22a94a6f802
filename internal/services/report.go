package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

// ReportCap is the number of report rows kept per project; the oldest are
// pruned when a new report pushes the count over.
const ReportCap = 25

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// File reports a comment. A repeat report by the same reporter reopens the
// existing row instead of creating a duplicate.
func (s *ReportService) File(commentID uint, reason string, reporterID uint) (*models.Report, error) {
	var comment models.Comment
	if err := s.db.Preload("Project").First(&comment, commentID).Error; err != nil {
		return nil, response.NewNotFound("comment not found")
	}

	reporter := authz.ResolveRole(s.db, comment.Project, reporterID)
	author := authz.ResolveRole(s.db, comment.Project, comment.AuthorID)
	if !authz.CanReportComment(reporter, comment.AuthorID == reporterID, author) {
		return nil, response.NewForbidden()
	}

	var report models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("comment_id = ? AND reporter_id = ?", commentID, reporterID).First(&report).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			report = models.Report{
				CommentID:      commentID,
				ReporterID:     reporterID,
				ReportedUserID: comment.AuthorID,
				Reason:         reason,
				Status:         models.ReportOpen,
			}
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			report.Status = models.ReportOpen
			report.Reason = reason
			report.ResolvedByID = nil
			report.ResolvedAt = nil
			if err := tx.Save(&report).Error; err != nil {
				return err
			}
		}
		return pruneReports(tx, comment.ProjectID, ReportCap)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns a project's reports, newest first, for moderators.
func (s *ReportService) List(projectID, actorID uint) ([]models.Report, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	actor := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(actor, authz.ActionModerateReports) {
		return nil, response.NewForbidden()
	}

	var reports []models.Report
	if err := s.db.
		Joins("JOIN comments ON comments.id = reports.comment_id").
		Where("comments.project_id = ?", projectID).
		Preload("Comment").Preload("Reporter").Preload("ReportedUser").Preload("ResolvedBy").
		Order("reports.created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Resolve closes a report as actioned.
func (s *ReportService) Resolve(reportID, actorID uint) (*models.Report, error) {
	return s.close(reportID, actorID, models.ReportResolved)
}

// Dismiss closes a report without action.
func (s *ReportService) Dismiss(reportID, actorID uint) (*models.Report, error) {
	return s.close(reportID, actorID, models.ReportDismissed)
}

func (s *ReportService) close(reportID, actorID uint, status string) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Comment.Project").Preload("ReportedUser").First(&report, reportID).Error; err != nil {
		return nil, response.NewNotFound("report not found")
	}

	project := report.Comment.Project
	actor := authz.ResolveRole(s.db, project, actorID)
	if !authz.Can(actor, authz.ActionModerateReports) {
		return nil, response.NewForbidden()
	}

	if report.Status == status {
		return &report, nil
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		report.Status = status
		report.ResolvedByID = &actorID
		report.ResolvedAt = &now
		if err := tx.Save(&report).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("report against %s was %s", report.ReportedUser.Username, status)
		return appendLog(tx, project.ID, &actorID, msg)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// pruneReports deletes the oldest report rows beyond limit for one project,
// scoped through the reported comments.
func pruneReports(tx *gorm.DB, projectID uint, limit int) error {
	var count int64
	if err := tx.Model(&models.Report{}).
		Joins("JOIN comments ON comments.id = reports.comment_id").
		Where("comments.project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return err
	}

	excess := int(count) - limit
	if excess <= 0 {
		return nil
	}

	var ids []uint
	if err := tx.Model(&models.Report{}).
		Joins("JOIN comments ON comments.id = reports.comment_id").
		Where("comments.project_id = ?", projectID).
		Order("reports.created_at ASC, reports.id ASC").
		Limit(excess).
		Pluck("reports.id", &ids).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Report{}, ids).Error
}
