package models

import (
	"time"
)

// Friend request status values.
const (
	FriendPending  = "pending"
	FriendAccepted = "accepted"
	FriendDeclined = "declined"
)

// FriendRequest manages the whole friendship lifecycle: a pending row is an
// open request, an accepted row is the friendship itself. One row per
// directed (from, to) pair.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"uniqueIndex:idx_friend_from_to;not null" json:"from_user_id"`
	FromUser   *User     `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID   uint      `gorm:"uniqueIndex:idx_friend_from_to;not null" json:"to_user_id"`
	ToUser     *User     `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	Status     string    `gorm:"size:10;default:pending" json:"status"` // pending, accepted, declined
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (FriendRequest) TableName() string { return "friend_requests" }
