package handlers

import (
	"strconv"

	"github.com/collabdesk/collabdesk/internal/config"
	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(db *gorm.DB, cfg *config.UploadConfig) *FileHandler {
	return &FileHandler{
		fileService: services.NewFileService(db, cfg),
	}
}

// List returns a project's file records
// GET /api/projects/:id/files
func (h *FileHandler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	files, err := h.fileService.List(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, files)
}

// Upload stores a file for a project
// POST /api/projects/:id/files
func (h *FileHandler) Upload(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	description := c.PostForm("description")

	file, err := h.fileService.Upload(uint(projectID), header, description, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, file)
}

// Download streams a stored file back under its original name
// GET /api/files/:id/download
func (h *FileHandler) Download(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid file id")
		return
	}

	path, file, err := h.fileService.Path(uint(fileID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(path, file.FileName)
}

// Delete removes a file record and its bytes
// DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid file id")
		return
	}

	if err := h.fileService.Delete(uint(fileID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "file deleted"})
}
