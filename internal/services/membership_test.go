package services

import (
	"net/http"
	"testing"

	"github.com/collabdesk/collabdesk/internal/authz"
	"github.com/collabdesk/collabdesk/internal/models"
)

func TestRequestAccess_CreatesPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	project := createProject(t, db, owner.ID, false)

	request, err := svc.RequestAccess(project.ID, requester.ID)
	if err != nil {
		t.Fatalf("RequestAccess() error = %v", err)
	}
	if request.Status != models.RequestPending {
		t.Errorf("status = %q, expected pending", request.Status)
	}
}

func TestRequestAccess_IdempotentWhilePending(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	project := createProject(t, db, owner.ID, false)

	first, _ := svc.RequestAccess(project.ID, requester.ID)
	second, err := svc.RequestAccess(project.ID, requester.ID)
	if err != nil {
		t.Fatalf("re-submitting while pending should be a no-op, got %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-submission created a new row: %d != %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.AccessRequest{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 request row, got %d", count)
	}
}

func TestRequestAccess_ResetsDeniedToPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	project := createProject(t, db, owner.ID, false)

	request, _ := svc.RequestAccess(project.ID, requester.ID)
	if _, err := svc.DenyAccess(request.ID, owner.ID); err != nil {
		t.Fatalf("DenyAccess() error = %v", err)
	}

	resubmitted, err := svc.RequestAccess(project.ID, requester.ID)
	if err != nil {
		t.Fatalf("RequestAccess() after denial error = %v", err)
	}
	if resubmitted.ID != request.ID {
		t.Errorf("resubmission should reuse the denied row")
	}
	if resubmitted.Status != models.RequestPending {
		t.Errorf("status = %q, expected pending", resubmitted.Status)
	}
}

func TestRequestAccess_MemberConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, member.ID, models.RoleViewer)

	_, err := svc.RequestAccess(project.ID, member.ID)
	assertStatus(t, err, http.StatusConflict)

	_, err = svc.RequestAccess(project.ID, owner.ID)
	assertStatus(t, err, http.StatusConflict)
}

func TestRequestAccess_BannedForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	banned := createUser(t, db, "banned")
	project := createProject(t, db, owner.ID, false)
	db.Create(&models.Ban{ProjectID: project.ID, UserID: banned.ID, BannedByID: owner.ID, Role: models.RoleEditor})

	_, err := svc.RequestAccess(project.ID, banned.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestApproveAccess_CreatesEditorMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	project := createProject(t, db, owner.ID, false)

	request, _ := svc.RequestAccess(project.ID, requester.ID)
	membership, err := svc.ApproveAccess(request.ID, owner.ID)
	if err != nil {
		t.Fatalf("ApproveAccess() error = %v", err)
	}
	if membership.Role != models.RoleEditor {
		t.Errorf("role = %q, approval must grant the default editor role", membership.Role)
	}

	var updated models.AccessRequest
	db.First(&updated, request.ID)
	if updated.Status != models.RequestApproved {
		t.Errorf("request status = %q, expected approved", updated.Status)
	}

	if role := authz.ResolveRole(db, project, requester.ID); role != authz.RoleEditor {
		t.Errorf("resolved role = %s, expected editor", role)
	}
}

func TestApproveAccess_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	project := createProject(t, db, owner.ID, false)

	request, _ := svc.RequestAccess(project.ID, requester.ID)
	first, _ := svc.ApproveAccess(request.ID, owner.ID)
	second, err := svc.ApproveAccess(request.ID, owner.ID)
	if err != nil {
		t.Fatalf("re-approving should be a no-op, got %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-approval created a second membership")
	}

	var count int64
	db.Model(&models.Membership{}).Where("project_id = ? AND user_id = ?", project.ID, requester.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 membership row, got %d", count)
	}
}

func TestApproveAccess_RequiresAdminOrOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	editor := createUser(t, db, "editor")
	admin := createUser(t, db, "admin")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, editor.ID, models.RoleEditor)
	addMember(t, db, project.ID, admin.ID, models.RoleAdmin)

	request, _ := svc.RequestAccess(project.ID, requester.ID)

	_, err := svc.ApproveAccess(request.ID, editor.ID)
	assertStatus(t, err, http.StatusForbidden)

	if _, err := svc.ApproveAccess(request.ID, admin.ID); err != nil {
		t.Errorf("admin should approve access requests, got %v", err)
	}
}

func TestDenyAccess_RowPersists(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	requester := createUser(t, db, "requester")
	project := createProject(t, db, owner.ID, false)

	request, _ := svc.RequestAccess(project.ID, requester.ID)
	denied, err := svc.DenyAccess(request.ID, owner.ID)
	if err != nil {
		t.Fatalf("DenyAccess() error = %v", err)
	}
	if denied.Status != models.RequestDenied {
		t.Errorf("status = %q, expected denied", denied.Status)
	}

	var count int64
	db.Model(&models.AccessRequest{}).Where("id = ?", request.ID).Count(&count)
	if count != 1 {
		t.Error("denied request row must persist")
	}

	// No membership was created.
	if role := authz.ResolveRole(db, project, requester.ID); role != authz.RoleNone {
		t.Errorf("resolved role after denial = %s, expected none", role)
	}
}

func TestChangeRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	membership := addMember(t, db, project.ID, member.ID, models.RoleEditor)

	updated, err := svc.ChangeRole(membership.ID, models.RoleAdmin, owner.ID)
	if err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Errorf("role = %q, expected admin", updated.Role)
	}
}

func TestChangeRole_OwnerIsNotAssignable(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	membership := addMember(t, db, project.ID, member.ID, models.RoleEditor)

	_, err := svc.ChangeRole(membership.ID, "owner", owner.ID)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestChangeRole_AdminCannotTouchAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	adminA := createUser(t, db, "adminA")
	adminB := createUser(t, db, "adminB")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, adminA.ID, models.RoleAdmin)
	membershipB := addMember(t, db, project.ID, adminB.ID, models.RoleAdmin)

	_, err := svc.ChangeRole(membershipB.ID, models.RoleViewer, adminA.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestChangeRole_AdminCannotPromoteToAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	admin := createUser(t, db, "admin")
	editor := createUser(t, db, "editor")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, admin.ID, models.RoleAdmin)
	membership := addMember(t, db, project.ID, editor.ID, models.RoleEditor)

	_, err := svc.ChangeRole(membership.ID, models.RoleAdmin, admin.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestBanMember_AtomicSwap(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	membership := addMember(t, db, project.ID, member.ID, models.RoleEditor)

	ban, err := svc.BanMember(membership.ID, "spamming", owner.ID)
	if err != nil {
		t.Fatalf("BanMember() error = %v", err)
	}
	if ban.Role != models.RoleEditor {
		t.Errorf("ban must record the pre-ban role, got %q", ban.Role)
	}
	if ban.BannedByID != owner.ID {
		t.Errorf("ban must record who banned, got %d", ban.BannedByID)
	}

	// Membership gone, ban present: never both.
	var memberships, bans int64
	db.Model(&models.Membership{}).Where("project_id = ? AND user_id = ?", project.ID, member.ID).Count(&memberships)
	db.Model(&models.Ban{}).Where("project_id = ? AND user_id = ?", project.ID, member.ID).Count(&bans)
	if memberships != 0 || bans != 1 {
		t.Errorf("after ban: memberships=%d bans=%d, expected 0 and 1", memberships, bans)
	}

	if role := authz.ResolveRole(db, project, member.ID); role != authz.RoleNone {
		t.Errorf("banned user resolves to %s, expected none", role)
	}
}

func TestBanMember_AdminCannotBanAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	adminA := createUser(t, db, "adminA")
	adminB := createUser(t, db, "adminB")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, adminA.ID, models.RoleAdmin)
	membershipB := addMember(t, db, project.ID, adminB.ID, models.RoleAdmin)

	_, err := svc.BanMember(membershipB.ID, "", adminA.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestUnban_DoesNotRestoreMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	membership := addMember(t, db, project.ID, member.ID, models.RoleViewer)

	ban, _ := svc.BanMember(membership.ID, "", owner.ID)
	if err := svc.UnbanMember(ban.ID, owner.ID); err != nil {
		t.Fatalf("UnbanMember() error = %v", err)
	}

	var bans int64
	db.Model(&models.Ban{}).Where("project_id = ? AND user_id = ?", project.ID, member.ID).Count(&bans)
	if bans != 0 {
		t.Errorf("ban row should be gone, found %d", bans)
	}

	if role := authz.ResolveRole(db, project, member.ID); role != authz.RoleNone {
		t.Errorf("unbanned user resolves to %s, expected none (must re-request access)", role)
	}

	// And they may request access again now.
	if _, err := svc.RequestAccess(project.ID, member.ID); err != nil {
		t.Errorf("unbanned user should be able to request access, got %v", err)
	}
}

func TestLeave(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, member.ID, models.RoleEditor)

	if err := svc.Leave(project.ID, member.ID); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}
	if role := authz.ResolveRole(db, project, member.ID); role != authz.RoleNone {
		t.Errorf("role after leaving = %s, expected none", role)
	}
}

func TestLeave_OwnerForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.ID, false)

	err := svc.Leave(project.ID, owner.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestAddCollaborator(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	user := createUser(t, db, "user")
	project := createProject(t, db, owner.ID, false)

	membership, err := svc.AddCollaborator(project.ID, user.ID, models.RoleViewer, owner.ID)
	if err != nil {
		t.Fatalf("AddCollaborator() error = %v", err)
	}
	if membership.Role != models.RoleViewer {
		t.Errorf("role = %q, expected viewer", membership.Role)
	}

	_, err = svc.AddCollaborator(project.ID, user.ID, models.RoleViewer, owner.ID)
	assertStatus(t, err, http.StatusConflict)
}

func TestAddCollaborator_AdminCannotGrantAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	owner := createUser(t, db, "owner")
	admin := createUser(t, db, "admin")
	user := createUser(t, db, "user")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, admin.ID, models.RoleAdmin)

	_, err := svc.AddCollaborator(project.ID, user.ID, models.RoleAdmin, admin.ID)
	assertStatus(t, err, http.StatusForbidden)

	if _, err := svc.AddCollaborator(project.ID, user.ID, models.RoleEditor, admin.ID); err != nil {
		t.Errorf("admin should add an editor, got %v", err)
	}
}

// TestMembershipLifecycle is the end-to-end scenario: a private project where
// access is requested, approved, promoted, and where admin-vs-admin bans are
// refused while the owner's ban goes through atomically.
func TestMembershipLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)

	ownerO := createUser(t, db, "o")
	userA := createUser(t, db, "a")
	userB := createUser(t, db, "b")
	project := createProject(t, db, ownerO.ID, false)

	// A requests access; O approves; A is an editor.
	request, err := svc.RequestAccess(project.ID, userA.ID)
	if err != nil {
		t.Fatalf("RequestAccess() error = %v", err)
	}
	membershipA, err := svc.ApproveAccess(request.ID, ownerO.ID)
	if err != nil {
		t.Fatalf("ApproveAccess() error = %v", err)
	}
	if membershipA.Role != models.RoleEditor {
		t.Fatalf("approved role = %q, expected editor", membershipA.Role)
	}

	// O promotes A to admin.
	membershipA, err = svc.ChangeRole(membershipA.ID, models.RoleAdmin, ownerO.ID)
	if err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}

	// B joins as admin too (added by O), then A tries to ban B: forbidden.
	membershipB, err := svc.AddCollaborator(project.ID, userB.ID, models.RoleAdmin, ownerO.ID)
	if err != nil {
		t.Fatalf("AddCollaborator() error = %v", err)
	}
	_, err = svc.BanMember(membershipB.ID, "", userA.ID)
	assertStatus(t, err, http.StatusForbidden)

	// O demotes B to editor and bans them.
	membershipB, err = svc.ChangeRole(membershipB.ID, models.RoleEditor, ownerO.ID)
	if err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}
	ban, err := svc.BanMember(membershipB.ID, "hostile", ownerO.ID)
	if err != nil {
		t.Fatalf("BanMember() error = %v", err)
	}
	if ban.Role != models.RoleEditor {
		t.Errorf("ban recorded role %q, expected editor", ban.Role)
	}
	if role := authz.ResolveRole(db, project, userB.ID); role != authz.RoleNone {
		t.Errorf("banned user resolves to %s, expected none", role)
	}
}
