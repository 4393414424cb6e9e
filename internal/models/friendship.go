package models

import (
	"time"
)

// Friendship is a directed edge: UserID added FriendID. The reverse edge is
// an independent row; mutual friendship is derived, never materialized.
type Friendship struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index:idx_friendship,unique"`
	FriendID  uint      `gorm:"not null;index:idx_friendship,unique"`
	Status    string    `gorm:"type:varchar(20);default:'confirmed'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// FriendshipStatusConfirmed is the only status written today; the column
// itself stays for a future request/confirm flow.
const FriendshipStatusConfirmed = "confirmed"

func (Friendship) TableName() string {
	return "friendships"
}
