package services

import (
	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// List returns a project's comments, newest first.
func (s *CommentService) List(projectID, actorID uint) ([]models.Comment, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.CanView(role, &project) {
		return nil, response.NewForbidden()
	}

	var comments []models.Comment
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Author").
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Create adds a comment. Editor and above.
func (s *CommentService) Create(projectID uint, body string, actorID uint) (*models.Comment, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(role, authz.ActionMutateContent) {
		return nil, response.NewForbidden()
	}

	comment := models.Comment{ProjectID: projectID, AuthorID: actorID, Body: body}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update edits a comment body. Only the author may edit, and only while they
// still hold a role on the project.
func (s *CommentService) Update(commentID uint, body string, actorID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Preload("Project").First(&comment, commentID).Error; err != nil {
		return nil, response.NewNotFound("comment not found")
	}

	role := authz.ResolveRole(s.db, comment.Project, actorID)
	if !authz.CanEditComment(role, comment.AuthorID == actorID) {
		return nil, response.NewForbidden()
	}

	comment.Body = body
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment under the combined authorship and moderation rule:
// the author, the owner, or an admin when the author is neither owner nor
// admin. Open reports on the comment are removed with it.
func (s *CommentService) Delete(commentID, actorID uint) error {
	var comment models.Comment
	if err := s.db.Preload("Project").First(&comment, commentID).Error; err != nil {
		return response.NewNotFound("comment not found")
	}

	actor := authz.ResolveRole(s.db, comment.Project, actorID)
	author := authz.ResolveRole(s.db, comment.Project, comment.AuthorID)
	if !authz.CanDeleteComment(actor, comment.AuthorID == actorID, author) {
		return response.NewForbidden()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_type = ? AND item_id = ?", models.ReadItemComment, comment.ID).
			Delete(&models.ReadMark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
}
