package authz

// Can decides whether a role may perform an action that has no specific
// target member. All call sites route through here; no handler or service
// compares roles directly.
func Can(actor Role, action Action) bool {
	switch action {
	case ActionMutateContent:
		return actor >= RoleEditor
	case ActionManageMembers, ActionReviewAccess, ActionModerateReports:
		return actor >= RoleAdmin
	case ActionEditProject, ActionDeleteProject:
		return actor == RoleOwner
	default:
		return false
	}
}

// CanActOn decides whether a role may perform a membership action against a
// member holding target. The owner may act on anyone; an admin may act only
// on editors and viewers, never on another admin or the owner.
func CanActOn(actor Role, action Action, target Role) bool {
	if !Can(actor, action) {
		return false
	}
	if actor == RoleOwner {
		return true
	}
	return target < RoleAdmin
}

// CanEditComment applies the self-authorship override: an author may edit
// their own comment whatever their rank, unless they have been removed from
// the project entirely.
func CanEditComment(actor Role, isAuthor bool) bool {
	return isAuthor && actor != RoleNone
}

// CanDeleteComment combines authorship and moderation: the author, the owner,
// or an admin acting on a comment whose author is neither owner nor admin.
func CanDeleteComment(actor Role, isAuthor bool, author Role) bool {
	if isAuthor {
		return actor != RoleNone
	}
	if actor == RoleOwner {
		return true
	}
	return actor == RoleAdmin && author < RoleAdmin
}

// CanReportComment decides whether a member may file a report against a
// comment. Self-reports are never allowed. Editors and viewers cannot report
// owner-authored comments, but admins can report owner- and admin-authored
// ones; that asymmetry is deliberate and must not be "fixed" here.
func CanReportComment(reporter Role, isAuthor bool, author Role) bool {
	if isAuthor || reporter == RoleNone || reporter == RoleOwner {
		return false
	}
	if reporter == RoleAdmin {
		return true
	}
	return author != RoleOwner
}

// CanLeave reports whether a member may leave the project on their own. The
// owner cannot leave; they must delete the project instead.
func CanLeave(role Role) bool {
	return role == RoleViewer || role == RoleEditor || role == RoleAdmin
}
