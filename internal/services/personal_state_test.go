package services

import (
	"net/http"
	"testing"

	"github.com/collabdesk/collabdesk/internal/models"
)

func TestPinTask(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	state := NewPersonalStateService(db)

	owner := createUser(t, db, "owner")
	viewer := createUser(t, db, "viewer")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, viewer.ID, models.RoleViewer)

	task, err := tasks.Create(project.ID, "write docs", owner.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Even a viewer may pin; pins are personal state, not content mutation.
	if _, err := state.PinTask(task.ID, viewer.ID); err != nil {
		t.Fatalf("PinTask() error = %v", err)
	}

	// Pinning again is a no-op.
	if _, err := state.PinTask(task.ID, viewer.ID); err != nil {
		t.Fatalf("re-PinTask() error = %v", err)
	}
	var count int64
	db.Model(&models.TaskPin{}).Where("task_id = ? AND user_id = ?", task.ID, viewer.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 pin row, got %d", count)
	}

	pinned, err := state.PinnedTasks(viewer.ID)
	if err != nil {
		t.Fatalf("PinnedTasks() error = %v", err)
	}
	if len(pinned) != 1 || pinned[0].ID != task.ID {
		t.Errorf("pinned list should contain the task")
	}

	// Pins are per user.
	ownerPinned, _ := state.PinnedTasks(owner.ID)
	if len(ownerPinned) != 0 {
		t.Errorf("another user's pins leaked: %d", len(ownerPinned))
	}

	if err := state.UnpinTask(task.ID, viewer.ID); err != nil {
		t.Fatalf("UnpinTask() error = %v", err)
	}
	if err := state.UnpinTask(task.ID, viewer.ID); err == nil {
		t.Error("unpinning an unpinned task should fail")
	}
}

func TestPinTask_OutsiderForbidden(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	state := NewPersonalStateService(db)

	owner := createUser(t, db, "owner")
	outsider := createUser(t, db, "outsider")
	project := createProject(t, db, owner.ID, false)

	task, _ := tasks.Create(project.ID, "private work", owner.ID)

	_, err := state.PinTask(task.ID, outsider.ID)
	assertStatus(t, err, http.StatusForbidden)
}

func TestMarkRead(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)
	state := NewPersonalStateService(db)

	owner := createUser(t, db, "owner")
	member := createUser(t, db, "member")
	project := createProject(t, db, owner.ID, false)
	addMember(t, db, project.ID, member.ID, models.RoleViewer)

	comment, err := comments.Create(project.ID, "announcement", owner.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mark, err := state.MarkRead(models.ReadItemComment, comment.ID, member.ID)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	// Marking again returns the same row.
	again, err := state.MarkRead(models.ReadItemComment, comment.ID, member.ID)
	if err != nil {
		t.Fatalf("re-MarkRead() error = %v", err)
	}
	if again.ID != mark.ID {
		t.Errorf("re-marking created a new row: %d != %d", again.ID, mark.ID)
	}

	_, err = state.MarkRead("bogus", comment.ID, member.ID)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = state.MarkRead(models.ReadItemTask, 999, member.ID)
	assertStatus(t, err, http.StatusNotFound)
}
