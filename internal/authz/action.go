package authz

// Action is a category of project operation subject to permission checks.
type Action int

const (
	// ActionMutateContent covers adding, editing and deleting tasks,
	// comments and files.
	ActionMutateContent Action = iota
	// ActionManageMembers covers adding collaborators, changing roles,
	// removing members, banning and unbanning.
	ActionManageMembers
	// ActionReviewAccess covers approving and denying access requests.
	ActionReviewAccess
	// ActionModerateReports covers resolving and dismissing comment reports.
	ActionModerateReports
	// ActionEditProject covers changing the project's own fields.
	ActionEditProject
	// ActionDeleteProject covers deleting the project and everything it owns.
	ActionDeleteProject
)

func (a Action) String() string {
	switch a {
	case ActionMutateContent:
		return "mutate_content"
	case ActionManageMembers:
		return "manage_members"
	case ActionReviewAccess:
		return "review_access"
	case ActionModerateReports:
		return "moderate_reports"
	case ActionEditProject:
		return "edit_project"
	case ActionDeleteProject:
		return "delete_project"
	default:
		return "unknown"
	}
}
