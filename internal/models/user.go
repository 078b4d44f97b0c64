package models

import "time"

type User struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	// bcrypt hash, never serialized
	PasswordHash string `gorm:"type:varchar(100);not null;column:password_hash" json:"-"`

	Role UserRole `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`

	EmailVerified bool `gorm:"not null;default:false" json:"email_verified"`
	Active        bool `gorm:"not null;default:true;index" json:"active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"login_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
