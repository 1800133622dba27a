package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is the wire record for a team row. The company name shown next to a
// team is joined from companies on every read, never stored here.
type Team struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CompanyID   *string   `gorm:"size:36;index" json:"company_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Team) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TeamMember is the wire record for a team membership row.
type TeamMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Role      *string   `gorm:"size:100" json:"role"`
	Email     *string   `gorm:"size:255" json:"email"`
	Avatar    *string   `gorm:"size:500" json:"avatar"`
	TeamID    string    `gorm:"size:36;not null;index" json:"team_id"`
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *TeamMember) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (Team) TableName() string       { return "teams" }
func (TeamMember) TableName() string { return "team_members" }
