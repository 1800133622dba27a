package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses and priorities are constrained at the request-binding layer
// and normalized again in the services before any write.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task is the wire record for a task row.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:50;not null;index" json:"status"`
	Priority    string     `gorm:"size:50;not null;index" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CompanyID   *string    `gorm:"size:36;index" json:"company_id"`
	AssigneeID  *string    `gorm:"size:36;index" json:"assignee_id"`
	ReporterID  *string    `gorm:"size:36" json:"reporter_id"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Todo is the wire record for a task checklist item.
type Todo struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Completed *bool     `json:"completed"`
	TaskID    *string   `gorm:"size:36;index" json:"task_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (t *Todo) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Comment is the wire record for a task comment. Comments are immutable once
// posted, so the author's display fields are stored alongside the row.
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	UserID     *string   `gorm:"size:36" json:"user_id"`
	UserName   string    `gorm:"size:200;not null" json:"user_name"`
	UserAvatar *string   `gorm:"size:500" json:"user_avatar"`
	TaskID     *string   `gorm:"size:36;index" json:"task_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Attachment is the wire record for an uploaded file reference.
type Attachment struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:500;not null" json:"name"`
	URL            string    `gorm:"size:1000;not null" json:"url"`
	Type           string    `gorm:"size:100;not null" json:"type"`
	Size           int64     `gorm:"not null" json:"size"`
	UploadedByID   *string   `gorm:"size:36" json:"uploaded_by_id"`
	UploadedByName string    `gorm:"size:200;not null" json:"uploaded_by_name"`
	TaskID         *string   `gorm:"size:36;index" json:"task_id"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (a *Attachment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (Task) TableName() string       { return "tasks" }
func (Todo) TableName() string       { return "todos" }
func (Comment) TableName() string    { return "comments" }
func (Attachment) TableName() string { return "attachments" }
