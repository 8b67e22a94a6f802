package services

import (
	"errors"
	"fmt"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

// MembershipService owns the membership lifecycle for a (project, user) pair:
// none -> pending request -> member -> removed or banned, and banned -> none.
// Transitions that touch more than one row run in a single transaction so the
// pair never holds two states at once (e.g. a membership and a ban).
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// DefaultMemberRole is the role granted on access-request approval. The
// request itself never carries a role.
const DefaultMemberRole = models.RoleEditor

// RequestAccess submits (or re-submits) an access request. Re-submitting while
// pending is a no-op; a denied request is reset to pending. Members, the owner
// and banned users cannot request access.
func (s *MembershipService) RequestAccess(projectID, userID uint) (*models.AccessRequest, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	if role := authz.ResolveRole(s.db, &project, userID); role != authz.RoleNone {
		return nil, response.NewConflict("already a member of this project")
	}

	var ban models.Ban
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&ban).Error; err == nil {
		return nil, response.NewForbidden()
	}

	var request models.AccessRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&request).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			request = models.AccessRequest{ProjectID: projectID, UserID: userID, Status: models.RequestPending}
			return tx.Create(&request).Error
		case err != nil:
			return err
		}

		if request.Status == models.RequestPending {
			return nil
		}
		request.Status = models.RequestPending
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ApproveAccess turns a pending request into a membership with the default
// role and marks the request approved, atomically. Re-approving an already
// approved request returns the existing membership.
func (s *MembershipService) ApproveAccess(requestID, actorID uint) (*models.Membership, error) {
	var request models.AccessRequest
	if err := s.db.Preload("Project").Preload("User").First(&request, requestID).Error; err != nil {
		return nil, response.NewNotFound("access request not found")
	}

	actor := authz.ResolveRole(s.db, request.Project, actorID)
	if !authz.Can(actor, authz.ActionReviewAccess) {
		return nil, response.NewForbidden()
	}

	var membership models.Membership
	if request.Status == models.RequestApproved {
		if err := s.db.Where("project_id = ? AND user_id = ?", request.ProjectID, request.UserID).
			First(&membership).Error; err == nil {
			return &membership, nil
		}
		// Approved but membership gone (member has since left): fall through
		// and recreate it rather than leave the pair inconsistent.
	}

	var ban models.Ban
	if err := s.db.Where("project_id = ? AND user_id = ?", request.ProjectID, request.UserID).
		First(&ban).Error; err == nil {
		return nil, response.NewConflict("user is banned from this project")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.Membership{ProjectID: request.ProjectID, UserID: request.UserID}).
			Attrs(models.Membership{Role: DefaultMemberRole}).
			FirstOrCreate(&membership).Error; err != nil {
			return err
		}

		request.Status = models.RequestApproved
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("%s joined as %s (access request approved)", request.User.Username, DefaultMemberRole)
		return appendLog(tx, request.ProjectID, &actorID, msg)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// DenyAccess marks a pending request denied. The row persists so the user can
// resubmit later. Denying an already denied request is a no-op.
func (s *MembershipService) DenyAccess(requestID, actorID uint) (*models.AccessRequest, error) {
	var request models.AccessRequest
	if err := s.db.Preload("Project").Preload("User").First(&request, requestID).Error; err != nil {
		return nil, response.NewNotFound("access request not found")
	}

	actor := authz.ResolveRole(s.db, request.Project, actorID)
	if !authz.Can(actor, authz.ActionReviewAccess) {
		return nil, response.NewForbidden()
	}

	switch request.Status {
	case models.RequestDenied:
		return &request, nil
	case models.RequestApproved:
		return nil, response.NewConflict("request already approved")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		request.Status = models.RequestDenied
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("access request from %s was denied", request.User.Username)
		return appendLog(tx, request.ProjectID, &actorID, msg)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// AddCollaborator adds a user directly with the given role. The actor must be
// able to manage members and cannot grant a rank they could not act on.
func (s *MembershipService) AddCollaborator(projectID, userID uint, role string, actorID uint) (*models.Membership, error) {
	newRole, ok := authz.ParseMembershipRole(role)
	if !ok {
		return nil, response.NewBadRequest("invalid role, must be 'viewer', 'editor' or 'admin'")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	actor := authz.ResolveRole(s.db, &project, actorID)
	if !authz.CanActOn(actor, authz.ActionManageMembers, newRole) {
		return nil, response.NewForbidden()
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}
	if user.ID == project.OwnerID {
		return nil, response.NewConflict("user already owns this project")
	}

	var existing models.Membership
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error; err == nil {
		return nil, response.NewConflict("user is already a member of this project")
	}

	var ban models.Ban
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&ban).Error; err == nil {
		return nil, response.NewConflict("user is banned from this project")
	}

	membership := models.Membership{ProjectID: projectID, UserID: userID, Role: newRole.String()}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
		// A stale request for this pair would otherwise stay pending forever.
		if err := tx.Model(&models.AccessRequest{}).
			Where("project_id = ? AND user_id = ? AND status = ?", projectID, userID, models.RequestPending).
			Update("status", models.RequestApproved).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s was added as %s", user.Username, membership.Role)
		return appendLog(tx, projectID, &actorID, msg)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ChangeRole updates a member's role. Owner is not a valid target role, and
// the usual admin-vs-admin restriction applies to the member's current rank.
func (s *MembershipService) ChangeRole(membershipID uint, newRole string, actorID uint) (*models.Membership, error) {
	role, ok := authz.ParseMembershipRole(newRole)
	if !ok {
		return nil, response.NewBadRequest("invalid role, must be 'viewer', 'editor' or 'admin'")
	}

	var membership models.Membership
	if err := s.db.Preload("Project").Preload("User").First(&membership, membershipID).Error; err != nil {
		return nil, response.NewNotFound("membership not found")
	}

	actor := authz.ResolveRole(s.db, membership.Project, actorID)
	target, _ := authz.ParseMembershipRole(membership.Role)
	if !authz.CanActOn(actor, authz.ActionManageMembers, target) {
		return nil, response.NewForbidden()
	}
	// An admin also cannot promote someone to a rank they could not act on.
	if !authz.CanActOn(actor, authz.ActionManageMembers, role) {
		return nil, response.NewForbidden()
	}

	if membership.Role == role.String() {
		return &membership, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		membership.Role = role.String()
		if err := tx.Save(&membership).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s's role was changed to %s", membership.User.Username, membership.Role)
		return appendLog(tx, membership.ProjectID, &actorID, msg)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// RemoveMember kicks a member from the project, deleting the membership row.
func (s *MembershipService) RemoveMember(membershipID, actorID uint) error {
	var membership models.Membership
	if err := s.db.Preload("Project").Preload("User").First(&membership, membershipID).Error; err != nil {
		return response.NewNotFound("membership not found")
	}

	actor := authz.ResolveRole(s.db, membership.Project, actorID)
	target, _ := authz.ParseMembershipRole(membership.Role)
	if !authz.CanActOn(actor, authz.ActionManageMembers, target) {
		return response.NewForbidden()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Membership{}, membership.ID).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s was removed from the project", membership.User.Username)
		return appendLog(tx, membership.ProjectID, &actorID, msg)
	})
}

// BanMember bans a member: the membership row is deleted and a ban row
// recording the pre-ban role is created in one transaction, so the pair never
// holds both.
func (s *MembershipService) BanMember(membershipID uint, reason string, actorID uint) (*models.Ban, error) {
	var membership models.Membership
	if err := s.db.Preload("Project").Preload("User").First(&membership, membershipID).Error; err != nil {
		return nil, response.NewNotFound("membership not found")
	}

	actor := authz.ResolveRole(s.db, membership.Project, actorID)
	target, _ := authz.ParseMembershipRole(membership.Role)
	if !authz.CanActOn(actor, authz.ActionManageMembers, target) {
		return nil, response.NewForbidden()
	}

	ban := models.Ban{
		ProjectID:  membership.ProjectID,
		UserID:     membership.UserID,
		BannedByID: actorID,
		Role:       membership.Role,
		Reason:     reason,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ban).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Membership{}, membership.ID).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s was banned (was %s)", membership.User.Username, membership.Role)
		return appendLog(tx, membership.ProjectID, &actorID, msg)
	})
	if err != nil {
		return nil, err
	}
	return &ban, nil
}

// UnbanMember lifts a ban. Membership is not restored; the user must request
// access again.
func (s *MembershipService) UnbanMember(banID, actorID uint) error {
	var ban models.Ban
	if err := s.db.Preload("Project").Preload("User").First(&ban, banID).Error; err != nil {
		return response.NewNotFound("ban not found")
	}

	actor := authz.ResolveRole(s.db, ban.Project, actorID)
	if !authz.CanActOn(actor, authz.ActionManageMembers, authz.RoleNone) {
		return response.NewForbidden()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Ban{}, ban.ID).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s was unbanned", ban.User.Username)
		return appendLog(tx, ban.ProjectID, &actorID, msg)
	})
}

// Leave removes the acting user's own membership. The owner cannot leave.
func (s *MembershipService) Leave(projectID, userID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, userID)
	if !authz.CanLeave(role) {
		if role == authz.RoleNone {
			return response.NewNotFound("not a member of this project")
		}
		return response.NewForbidden()
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return response.NewNotFound("user not found")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s left the project", user.Username)
		return appendLog(tx, projectID, &userID, msg)
	})
}

// ListCollaborators returns a project's memberships. Any viewer of the
// project may see the member list.
func (s *MembershipService) ListCollaborators(projectID, actorID uint) ([]models.Membership, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	role := authz.ResolveRole(s.db, &project, actorID)
	if !authz.CanView(role, &project) {
		return nil, response.NewForbidden()
	}

	var members []models.Membership
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListAccessRequests returns the project's access requests for review.
func (s *MembershipService) ListAccessRequests(projectID, actorID uint) ([]models.AccessRequest, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	actor := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(actor, authz.ActionReviewAccess) {
		return nil, response.NewForbidden()
	}

	var requests []models.AccessRequest
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListBans returns the project's active bans.
func (s *MembershipService) ListBans(projectID, actorID uint) ([]models.Ban, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	actor := authz.ResolveRole(s.db, &project, actorID)
	if !authz.Can(actor, authz.ActionManageMembers) {
		return nil, response.NewForbidden()
	}

	var bans []models.Ban
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").Preload("BannedBy").
		Order("created_at DESC").
		Find(&bans).Error; err != nil {
		return nil, err
	}
	return bans, nil
}
