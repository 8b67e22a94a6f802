package services

import (
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/response"
	"gorm.io/gorm"
)

// FriendService manages the friendship lifecycle. An accepted request row is
// the friendship itself; declining keeps the row, removal deletes it.
type FriendService struct {
	db *gorm.DB
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{db: db}
}

// Send creates a pending request. Refused when any request already exists in
// either direction between the two users.
func (s *FriendService) Send(fromID, toID uint) (*models.FriendRequest, error) {
	if fromID == toID {
		return nil, response.NewBadRequest("cannot send a friend request to yourself")
	}

	var to models.User
	if err := s.db.First(&to, toID).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}

	var existing models.FriendRequest
	err := s.db.Where(
		"(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
		fromID, toID, toID, fromID,
	).First(&existing).Error
	if err == nil {
		return nil, response.NewConflict("a friend request already exists with this user")
	}

	request := models.FriendRequest{FromUserID: fromID, ToUserID: toID, Status: models.FriendPending}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Accept marks a pending request accepted. Recipient only.
func (s *FriendService) Accept(requestID, userID uint) (*models.FriendRequest, error) {
	return s.respond(requestID, userID, models.FriendAccepted)
}

// Decline marks a pending request declined. Recipient only.
func (s *FriendService) Decline(requestID, userID uint) (*models.FriendRequest, error) {
	return s.respond(requestID, userID, models.FriendDeclined)
}

func (s *FriendService) respond(requestID, userID uint, status string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := s.db.Where("id = ? AND to_user_id = ?", requestID, userID).First(&request).Error; err != nil {
		return nil, response.NewNotFound("friend request not found")
	}
	if request.Status != models.FriendPending {
		return nil, response.NewConflict("friend request already handled")
	}

	request.Status = status
	if err := s.db.Save(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Cancel deletes a pending request the user sent.
func (s *FriendService) Cancel(requestID, userID uint) error {
	result := s.db.Where("id = ? AND from_user_id = ? AND status = ?",
		requestID, userID, models.FriendPending).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("friend request not found")
	}
	return nil
}

// Remove deletes an accepted friendship in either direction.
func (s *FriendService) Remove(userID, friendID uint) error {
	result := s.db.Where(
		"status = ? AND ((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))",
		models.FriendAccepted, userID, friendID, friendID, userID,
	).Delete(&models.FriendRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("friendship not found")
	}
	return nil
}

// Friends returns the users connected to userID by an accepted request in
// either direction.
func (s *FriendService) Friends(userID uint) ([]models.User, error) {
	var requests []models.FriendRequest
	if err := s.db.Where(
		"status = ? AND (from_user_id = ? OR to_user_id = ?)",
		models.FriendAccepted, userID, userID,
	).Preload("FromUser").Preload("ToUser").Find(&requests).Error; err != nil {
		return nil, err
	}

	friends := make([]models.User, 0, len(requests))
	for _, r := range requests {
		if r.FromUserID == userID {
			if r.ToUser != nil {
				friends = append(friends, *r.ToUser)
			}
		} else if r.FromUser != nil {
			friends = append(friends, *r.FromUser)
		}
	}
	return friends, nil
}

// Pending returns the user's incoming and sent pending requests.
func (s *FriendService) Pending(userID uint) (incoming, sent []models.FriendRequest, err error) {
	if err = s.db.Where("to_user_id = ? AND status = ?", userID, models.FriendPending).
		Preload("FromUser").Find(&incoming).Error; err != nil {
		return nil, nil, err
	}
	if err = s.db.Where("from_user_id = ? AND status = ?", userID, models.FriendPending).
		Preload("ToUser").Find(&sent).Error; err != nil {
		return nil, nil, err
	}
	return incoming, sent, nil
}
