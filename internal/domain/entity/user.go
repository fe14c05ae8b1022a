package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a back-office user (admin or cashier)
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Fullname     string         `gorm:"size:255;not null" json:"fullname"`
	Username     string         `gorm:"size:255;unique;not null" json:"username"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	ProfileImage *string        `gorm:"size:255" json:"profile_image,omitempty"`
	RoleID       uint           `gorm:"not null;index" json:"role_id"`
	CreatedBy    *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}

// Well-known role names seeded at startup
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Role represents a user role
type Role struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}

// TableName returns the table name for the Role model
func (Role) TableName() string {
	return "roles"
}
