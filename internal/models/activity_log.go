package models

import "time"

// ActivityLog records an entity mutation for the dashboard activity feed.
// Rows are written through the activity queue and pruned by the maintenance
// scheduler after the configured retention period.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"size:50;index;not null" json:"entity_type"` // task, company, team, ...
	EntityID   string    `gorm:"size:36;index" json:"entity_id"`
	Action     string    `gorm:"size:50;not null" json:"action"` // created, updated, deleted
	ActorID    string    `gorm:"size:36;index" json:"actor_id"`
	ActorName  string    `gorm:"size:200" json:"actor_name"`
	CompanyID  *string   `gorm:"size:36;index" json:"company_id"`
	Summary    string    `gorm:"size:500" json:"summary"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
