package handlers

import (
	"strconv"

	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectLogHandler struct {
	logService *services.ProjectLogService
}

func NewProjectLogHandler(db *gorm.DB) *ProjectLogHandler {
	return &ProjectLogHandler{
		logService: services.NewProjectLogService(db),
	}
}

// List returns a project's audit log, newest first
// GET /api/projects/:id/logs
func (h *ProjectLogHandler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	logs, err := h.logService.List(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, logs)
}
