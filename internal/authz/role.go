// Package authz holds the effective-role resolver and the permission rules
// that gate every mutating operation on a project. Rules are pure functions
// over closed Role and Action enums; nothing in this package mutates state.
package authz

import (
	"github.com/collabdesk/collabdesk/internal/models"
	"gorm.io/gorm"
)

// Role is a user's effective permission level on one project, ordered
// none < viewer < editor < admin < owner. It is computed per request and
// never stored or cached; the membership table stores only viewer, editor
// and admin, while owner comes from the project's owner reference.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleEditor
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleViewer:
		return models.RoleViewer
	case RoleEditor:
		return models.RoleEditor
	case RoleAdmin:
		return models.RoleAdmin
	case RoleOwner:
		return "owner"
	default:
		return "none"
	}
}

// ParseMembershipRole maps a stored membership role to its enum value.
// Owner is deliberately not parseable: it is never a membership role.
func ParseMembershipRole(s string) (Role, bool) {
	switch s {
	case models.RoleViewer:
		return RoleViewer, true
	case models.RoleEditor:
		return RoleEditor, true
	case models.RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleNone, false
	}
}

// AtLeast reports whether r ranks at or above other.
func (r Role) AtLeast(other Role) bool { return r >= other }

// ResolveRole computes the effective role of userID on project:
// unauthenticated (zero) user -> none; owner reference match -> owner;
// membership row -> its stored role; otherwise none. Must be called fresh on
// every authorization decision, since the role can change mid-session.
func ResolveRole(db *gorm.DB, project *models.Project, userID uint) Role {
	if userID == 0 {
		return RoleNone
	}
	if project.OwnerID == userID {
		return RoleOwner
	}

	var m models.Membership
	if err := db.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&m).Error; err != nil {
		return RoleNone
	}

	role, ok := ParseMembershipRole(m.Role)
	if !ok {
		return RoleNone
	}
	return role
}

// CanView reports whether the role may read the project. Public projects are
// readable by everyone; that visibility is not a rank and grants no mutations.
func CanView(role Role, project *models.Project) bool {
	return role != RoleNone || project.IsPublic
}
