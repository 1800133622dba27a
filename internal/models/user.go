package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// User represents an account together with its profile fields. CompanyName is
// a denormalized copy of the company's name; it is refreshed inline on company
// rename and re-synced by the maintenance scheduler.
type User struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Username    string     `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password    string     `gorm:"size:255" json:"-"` // Hashed, empty for LDAP users
	Name        *string    `gorm:"size:200" json:"name"`
	Email       *string    `gorm:"size:255" json:"email"`
	Avatar      *string    `gorm:"size:500" json:"avatar"`
	Role        string     `gorm:"size:50;default:user;index" json:"role"` // superadmin, admin, user
	CompanyID   *string    `gorm:"size:36;index" json:"company_id"`
	CompanyName *string    `gorm:"size:200" json:"company_name"`
	AuthType    string     `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (User) TableName() string { return "users" }
