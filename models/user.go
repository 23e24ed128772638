package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	FirstName string    `json:"first_name" gorm:"size:150;not null"`
	LastName  string    `json:"last_name" gorm:"size:150;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      UserRole  `json:"-" gorm:"size:16;default:'user'"`
	Avatar    string    `json:"-" gorm:"size:255"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Follower is a subscription of UserID to FollowingUserID.
type Follower struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	UserID          uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_follower_pair"`
	FollowingUserID uint      `json:"following_user_id" gorm:"not null;uniqueIndex:idx_follower_pair;index"`
	FollowingUser   User      `json:"-" gorm:"foreignKey:FollowingUserID"`
	CreatedAt       time.Time `json:"created_at"`
}
