package entities

import "time"

// DefaultAvatar is the placeholder avatar assigned to every new account.
const DefaultAvatar = "default_profile_pic.jpg"

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string      `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string      `gorm:"size:60;not null" json:"-"`
	Avatar       string      `gorm:"size:64;not null;default:'default_profile_pic.jpg'" json:"avatar"`
	Notes        []Note      `gorm:"foreignKey:UserID" json:"-"`
	Books        []OwnedBook `gorm:"foreignKey:UserID" json:"-"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasCustomAvatar reports whether the user replaced the placeholder avatar.
func (u *User) HasCustomAvatar() bool {
	return u.Avatar != "" && u.Avatar != DefaultAvatar
}
