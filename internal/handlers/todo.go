package handlers

import (
	"strconv"

	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{
		todoService: services.NewTodoService(db),
	}
}

type TodoRequest struct {
	Title string `json:"title" binding:"required"`
}

// List returns the caller's personal todos
// GET /api/todos
func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.todoService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, todos)
}

// Create adds a personal todo
// POST /api/todos
func (h *TodoHandler) Create(c *gin.Context) {
	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	todo, err := h.todoService.Create(middleware.GetUserID(c), req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, todo)
}

// Toggle flips a todo's completion state
// POST /api/todos/:id/toggle
func (h *TodoHandler) Toggle(c *gin.Context) {
	todoID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid todo id")
		return
	}

	todo, err := h.todoService.Toggle(uint(todoID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, todo)
}

// Delete removes a todo
// DELETE /api/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	todoID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid todo id")
		return
	}

	if err := h.todoService.Delete(uint(todoID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "todo deleted"})
}
