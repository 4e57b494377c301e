package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff member of the workshop (admin or comercial)
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword   string     `gorm:"column:encrypted_password;not null" json:"-"`
	Role                string     `gorm:"default:seller" json:"role"`
	FullName            string     `json:"full_name"`
	Phone               string     `json:"phone"`
	Status              string     `gorm:"default:active" json:"status"`
	AvatarPath          *string    `json:"-"`
	AvatarThumbnailPath *string    `json:"-"`
	DiscardedAt         *time.Time `gorm:"index" json:"-"`
	Locale              string     `gorm:"default:es" json:"locale"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Associations
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleSeller
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	if u.Locale == "" {
		u.Locale = LocaleES
	}
	return nil
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive && u.DiscardedAt == nil
}

// Role constants
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Locale constants
const (
	LocaleES = "es"
	LocaleEN = "en"
)

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Locale    string    `json:"locale"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	avatarURL := ""
	if u.AvatarThumbnailPath != nil {
		avatarURL = *u.AvatarThumbnailPath
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		Locale:    u.Locale,
		AvatarURL: avatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
