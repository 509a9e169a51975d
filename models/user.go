// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	Bio         string  `json:"bio"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`
	IsAdmin     bool    `gorm:"default:false" json:"is_admin"`
	IsBanned    bool    `gorm:"default:false" json:"is_banned"`
	EmailPublic bool    `gorm:"default:false" json:"email_public"`

	// Climbing profile
	HomeGymID *uint `gorm:"index" json:"home_gym_id,omitempty"`
	HomeGym   *Gym  `json:"home_gym,omitempty" gorm:"foreignKey:HomeGymID"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    time.Time  `json:"last_login"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Relationships
	Badges    []UserBadge `gorm:"foreignKey:UserID" json:"badges,omitempty"`
	ClimbLogs []ClimbLog  `gorm:"foreignKey:UserID" json:"climb_logs,omitempty"`
}
