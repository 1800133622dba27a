package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CompanyStatusActive    = "active"
	CompanyStatusInactive  = "inactive"
	CompanyStatusSuspended = "suspended"
)

// Company is the wire record for a company row. Status transitions are free;
// there is no state machine between active/inactive/suspended.
type Company struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	Status        string    `gorm:"size:50;not null;index" json:"status"`
	Email         *string   `gorm:"size:255" json:"email"`
	Phone         *string   `gorm:"size:50" json:"phone"`
	Website       *string   `gorm:"size:500" json:"website"`
	Address       *string   `gorm:"size:500" json:"address"`
	EmployeeCount *int      `json:"employee_count"`
	Logo          *string   `gorm:"size:500" json:"logo"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (Company) TableName() string { return "companies" }
