package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles, ranked user < moderator < admin.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email       string  `gorm:"uniqueIndex;not null;size:254" json:"email"`
	Role        string  `gorm:"default:'user';not null;size:10" json:"role"`
	IsSuperuser bool    `gorm:"default:false;not null" json:"-"`
	FirstName   *string `json:"first_name,omitempty" gorm:"size:150"`
	LastName    *string `json:"last_name,omitempty" gorm:"size:150"`
	Bio         *string `json:"bio,omitempty" gorm:"type:text"`
	// Bcrypt hash of the last confirmation code sent for signup.
	// Nil until the user has requested a code.
	ConfirmationCode *string   `gorm:"column:confirmation_code" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsAdmin reports admin privilege. The superuser flag is admin-equivalent
// regardless of the stored role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

func (u *User) IsUser() bool {
	return u.Role == RoleUser
}

// ValidRole reports whether the value is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
