package services

import (
	"net/http"
	"testing"

	"github.com/collabdesk/collabdesk/internal/models"
)

func TestFriendRequest_Send(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.Send(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if request.Status != models.FriendPending {
		t.Errorf("status = %q, expected pending", request.Status)
	}

	_, err = svc.Send(alice.ID, alice.ID)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Send(alice.ID, 9999)
	assertStatus(t, err, http.StatusNotFound)

	// A second request in either direction is refused.
	_, err = svc.Send(alice.ID, bob.ID)
	assertStatus(t, err, http.StatusConflict)
	_, err = svc.Send(bob.ID, alice.ID)
	assertStatus(t, err, http.StatusConflict)
}

func TestFriendRequest_AcceptAndRemove(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := svc.Send(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	// Only the recipient can accept.
	_, err = svc.Accept(request.ID, alice.ID)
	assertStatus(t, err, http.StatusNotFound)

	accepted, err := svc.Accept(request.ID, bob.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if accepted.Status != models.FriendAccepted {
		t.Errorf("status = %q, expected accepted", accepted.Status)
	}

	_, err = svc.Accept(request.ID, bob.ID)
	assertStatus(t, err, http.StatusConflict)

	// The friendship is visible from both sides.
	for _, u := range []*models.User{alice, bob} {
		friends, err := svc.Friends(u.ID)
		if err != nil {
			t.Fatalf("Friends() error = %v", err)
		}
		if len(friends) != 1 {
			t.Fatalf("user %s has %d friends, expected 1", u.Username, len(friends))
		}
	}

	if err := svc.Remove(bob.ID, alice.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	friends, _ := svc.Friends(alice.ID)
	if len(friends) != 0 {
		t.Errorf("friendship not removed")
	}

	// Removal clears the row, so a fresh request is possible.
	if _, err := svc.Send(bob.ID, alice.ID); err != nil {
		t.Errorf("Send() after removal error = %v", err)
	}
}

func TestFriendRequest_Decline(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, _ := svc.Send(alice.ID, bob.ID)
	declined, err := svc.Decline(request.ID, bob.ID)
	if err != nil {
		t.Fatalf("Decline() error = %v", err)
	}
	if declined.Status != models.FriendDeclined {
		t.Errorf("status = %q, expected declined", declined.Status)
	}

	// The declined row blocks new requests until removed.
	_, err = svc.Send(alice.ID, bob.ID)
	assertStatus(t, err, http.StatusConflict)

	// A declined request is no friendship, so Remove finds nothing.
	err = svc.Remove(alice.ID, bob.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestFriendRequest_Cancel(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, _ := svc.Send(alice.ID, bob.ID)

	// Only the sender can cancel.
	err := svc.Cancel(request.ID, bob.ID)
	assertStatus(t, err, http.StatusNotFound)

	if err := svc.Cancel(request.ID, alice.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	incoming, sent, err := svc.Pending(bob.ID)
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(incoming) != 0 || len(sent) != 0 {
		t.Errorf("cancelled request still pending")
	}
}

func TestFriendRequest_Pending(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	if _, err := svc.Send(alice.ID, bob.ID); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := svc.Send(carol.ID, alice.ID); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	incoming, sent, err := svc.Pending(alice.ID)
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(incoming) != 1 || incoming[0].FromUserID != carol.ID {
		t.Errorf("incoming = %v, expected one request from carol", incoming)
	}
	if len(sent) != 1 || sent[0].ToUserID != bob.ID {
		t.Errorf("sent = %v, expected one request to bob", sent)
	}
}
