package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/config"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileService struct {
	db  *gorm.DB
	cfg *config.UploadConfig
}

func NewFileService(db *gorm.DB, cfg *config.UploadConfig) *FileService {
	return &FileService{db: db, cfg: cfg}
}

// List returns a project's file records for anyone who may view it.
func (s *FileService) List(projectID, actorID uint) ([]models.ProjectFile, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.CanView(role, &project) {
		return nil, response.NewForbidden()
	}

	var files []models.ProjectFile
	if err := s.db.Where("project_id = ?", projectID).
		Preload("UploadedBy").
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Upload authorizes the actor, stores the file bytes under a UUID name and
// records the metadata row. Editor and above.
func (s *FileService) Upload(projectID uint, header *multipart.FileHeader, description string, actorID uint) (*models.ProjectFile, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(role, authz.ActionMutateContent) {
		return nil, response.NewForbidden()
	}

	if s.cfg.MaxSizeMB > 0 && header.Size > s.cfg.MaxSizeMB*1024*1024 {
		return nil, response.NewBadRequest(fmt.Sprintf("file exceeds %d MB limit", s.cfg.MaxSizeMB))
	}

	stored := uuid.NewString() + filepath.Ext(header.Filename)
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	if err := saveUploadedFile(header, filepath.Join(s.cfg.Dir, stored)); err != nil {
		return nil, err
	}

	file := models.ProjectFile{
		ProjectID:    projectID,
		UploadedByID: actorID,
		FileName:     filepath.Base(header.Filename),
		StoredName:   stored,
		Size:         header.Size,
		Description:  description,
	}
	if err := s.db.Create(&file).Error; err != nil {
		os.Remove(filepath.Join(s.cfg.Dir, stored))
		return nil, err
	}
	return &file, nil
}

// Path returns the on-disk path of a file if the actor may view its project.
func (s *FileService) Path(fileID, actorID uint) (string, *models.ProjectFile, error) {
	var file models.ProjectFile
	if err := s.db.Preload("Project").First(&file, fileID).Error; err != nil {
		return "", nil, response.NewNotFound("file not found")
	}

	role := authz.ResolveRole(s.db, file.Project, actorID)
	if !authz.CanView(role, file.Project) {
		return "", nil, response.NewForbidden()
	}
	return filepath.Join(s.cfg.Dir, file.StoredName), &file, nil
}

// Delete removes the metadata row and the stored bytes. Editor and above.
func (s *FileService) Delete(fileID, actorID uint) error {
	var file models.ProjectFile
	if err := s.db.Preload("Project").First(&file, fileID).Error; err != nil {
		return response.NewNotFound("file not found")
	}

	role := authz.ResolveRole(s.db, file.Project, actorID)
	if !authz.Can(role, authz.ActionMutateContent) {
		return response.NewForbidden()
	}

	if err := s.db.Delete(&models.ProjectFile{}, file.ID).Error; err != nil {
		return err
	}
	s.db.Where("item_type = ? AND item_id = ?", models.ReadItemFile, file.ID).
		Delete(&models.ReadMark{})
	// Best effort; an orphaned blob is preferable to a dangling row.
	os.Remove(filepath.Join(s.cfg.Dir, file.StoredName))
	return nil
}

func saveUploadedFile(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.ReadFrom(src)
	return err
}
