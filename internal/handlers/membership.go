package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MembershipHandler exposes the membership lifecycle: collaborators, access
// requests, bans and leaving.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

func NewMembershipHandler(db *gorm.DB) *MembershipHandler {
	return &MembershipHandler{
		membershipService: services.NewMembershipService(db),
	}
}

type AddCollaboratorRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"` // viewer, editor, admin
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type BanRequest struct {
	Reason string `json:"reason"`
}

// ListCollaborators returns a project's members
// GET /api/projects/:id/collaborators
func (h *MembershipHandler) ListCollaborators(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	members, err := h.membershipService.ListCollaborators(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// AddCollaborator adds a user directly with a role
// POST /api/projects/:id/collaborators
func (h *MembershipHandler) AddCollaborator(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.membershipService.AddCollaborator(uint(projectID), req.UserID, req.Role, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, membership)
}

// ChangeRole updates a member's role
// PUT /api/memberships/:id/role
func (h *MembershipHandler) ChangeRole(c *gin.Context) {
	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid membership id")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.membershipService.ChangeRole(uint(membershipID), req.Role, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, membership)
}

// RemoveMember kicks a member
// DELETE /api/memberships/:id
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid membership id")
		return
	}

	if err := h.membershipService.RemoveMember(uint(membershipID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed"})
}

// Leave removes the caller's own membership
// POST /api/projects/:id/leave
func (h *MembershipHandler) Leave(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if err := h.membershipService.Leave(uint(projectID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "left the project"})
}

// RequestAccess submits an access request for a project
// POST /api/projects/:id/access-requests
func (h *MembershipHandler) RequestAccess(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	request, err := h.membershipService.RequestAccess(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// ListAccessRequests returns a project's access requests
// GET /api/projects/:id/access-requests
func (h *MembershipHandler) ListAccessRequests(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	requests, err := h.membershipService.ListAccessRequests(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, requests)
}

// ApproveAccess approves an access request
// POST /api/access-requests/:id/approve
func (h *MembershipHandler) ApproveAccess(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	membership, err := h.membershipService.ApproveAccess(uint(requestID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, membership)
}

// DenyAccess denies an access request
// POST /api/access-requests/:id/deny
func (h *MembershipHandler) DenyAccess(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.membershipService.DenyAccess(uint(requestID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

// ListBans returns a project's active bans
// GET /api/projects/:id/bans
func (h *MembershipHandler) ListBans(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	bans, err := h.membershipService.ListBans(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, bans)
}

// BanMember bans a member, removing their membership
// POST /api/memberships/:id/ban
func (h *MembershipHandler) BanMember(c *gin.Context) {
	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid membership id")
		return
	}

	// The reason body is optional.
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	ban, err := h.membershipService.BanMember(uint(membershipID), req.Reason, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, ban)
}

// UnbanMember lifts a ban
// DELETE /api/bans/:id
func (h *MembershipHandler) UnbanMember(c *gin.Context) {
	banID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid ban id")
		return
	}

	if err := h.membershipService.UnbanMember(uint(banID), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "ban lifted"})
}
