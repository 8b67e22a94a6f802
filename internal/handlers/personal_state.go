package handlers

import (
	"strconv"

	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PersonalStateHandler struct {
	stateService *services.PersonalStateService
}

func NewPersonalStateHandler(db *gorm.DB) *PersonalStateHandler {
	return &PersonalStateHandler{
		stateService: services.NewPersonalStateService(db),
	}
}

// PinTask pins a task for the caller
// POST /api/tasks/:id/pin
func (h *PersonalStateHandler) PinTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}

	pin, err := h.stateService.PinTask(uint(taskID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, pin)
}

// UnpinTask removes the caller's pin
// DELETE /api/tasks/:id/pin
func (h *PersonalStateHandler) UnpinTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}

	if err := h.stateService.UnpinTask(uint(taskID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "task unpinned"})
}

// PinnedTasks lists the caller's pinned tasks
// GET /api/tasks/pinned
func (h *PersonalStateHandler) PinnedTasks(c *gin.Context) {
	tasks, err := h.stateService.PinnedTasks(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tasks)
}

// MarkTaskRead marks a task as seen
// POST /api/tasks/:id/read
func (h *PersonalStateHandler) MarkTaskRead(c *gin.Context) {
	h.markRead(c, models.ReadItemTask)
}

// MarkCommentRead marks a comment as seen
// POST /api/comments/:id/read
func (h *PersonalStateHandler) MarkCommentRead(c *gin.Context) {
	h.markRead(c, models.ReadItemComment)
}

// MarkFileRead marks a file as seen
// POST /api/files/:id/read
func (h *PersonalStateHandler) MarkFileRead(c *gin.Context) {
	h.markRead(c, models.ReadItemFile)
}

func (h *PersonalStateHandler) markRead(c *gin.Context, itemType string) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}

	mark, err := h.stateService.MarkRead(itemType, uint(itemID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, mark)
}
