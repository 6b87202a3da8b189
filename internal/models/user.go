package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"` // Unique index on Email
	Password            string `gorm:"not null"`
	Name                string `gorm:"not null"`
	Role                string `gorm:"default:'student'"`
	Bio                 string
	AvatarURL           string
	Status              string `gorm:"default:'active'"`
	StripeAccountID     string `gorm:"index"` // Connected account for instructor payouts
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int `gorm:"default:1"`
}

// IsInstructor reports whether the user can publish and sell courses.
func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}

// CanReceivePayouts reports whether the user has a connected payout account.
func (u *User) CanReceivePayouts() bool {
	return u.StripeAccountID != ""
}
