package handlers

import (
	"strconv"

	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FriendHandler struct {
	friendService *services.FriendService
}

func NewFriendHandler(db *gorm.DB) *FriendHandler {
	return &FriendHandler{
		friendService: services.NewFriendService(db),
	}
}

type SendFriendRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// Send creates a friend request
// POST /api/friends/requests
func (h *FriendHandler) Send(c *gin.Context) {
	var req SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	request, err := h.friendService.Send(middleware.GetUserID(c), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// Accept accepts a pending friend request
// POST /api/friends/requests/:id/accept
func (h *FriendHandler) Accept(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.friendService.Accept(uint(requestID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

// Decline declines a pending friend request
// POST /api/friends/requests/:id/decline
func (h *FriendHandler) Decline(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.friendService.Decline(uint(requestID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

// Cancel withdraws a pending request the caller sent
// DELETE /api/friends/requests/:id
func (h *FriendHandler) Cancel(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	if err := h.friendService.Cancel(uint(requestID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "request cancelled"})
}

// Remove ends a friendship
// DELETE /api/friends/:userId
func (h *FriendHandler) Remove(c *gin.Context) {
	friendID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.friendService.Remove(middleware.GetUserID(c), uint(friendID)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "friend removed"})
}

// Friends lists the caller's friends
// GET /api/friends
func (h *FriendHandler) Friends(c *gin.Context) {
	friends, err := h.friendService.Friends(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, friends)
}

// Pending lists the caller's incoming and sent pending requests
// GET /api/friends/requests
func (h *FriendHandler) Pending(c *gin.Context) {
	incoming, sent, err := h.friendService.Pending(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"incoming": incoming, "sent": sent})
}
