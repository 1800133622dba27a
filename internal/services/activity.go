package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/pkg/logger"
)

// ActivityService records entity mutations for the dashboard feed and reads
// them back, scoped to the caller's company.
type ActivityService struct {
	db    *gorm.DB
	queue ActivityQueue
}

func NewActivityService(db *gorm.DB, queue ActivityQueue) *ActivityService {
	return &ActivityService{db: db, queue: queue}
}

type ActivityEntry struct {
	ID         uint   `json:"id"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Action     string `json:"action"`
	ActorID    string `json:"actorId"`
	ActorName  string `json:"actorName"`
	Summary    string `json:"summary"`
	CreatedAt  string `json:"createdAt"`
}

// Record enqueues one activity event. Recording is best-effort: a queue
// failure is logged and never fails the mutation that triggered it.
func (s *ActivityService) Record(ctx context.Context, who Identity, entityType, entityID, action, summary string) {
	event := &ActivityEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    who.UserID,
		ActorName:  who.Username,
		Summary:    summary,
	}
	if who.CompanyID != "" {
		companyID := who.CompanyID
		event.CompanyID = &companyID
	}

	if err := s.queue.Enqueue(ctx, event); err != nil {
		logger.Warnf("failed to record activity %s/%s: %v", entityType, action, err)
	}
}

// Recent returns the newest activity entries visible to the caller.
func (s *ActivityService) Recent(ctx context.Context, who Identity, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&models.ActivityLog{}).Order("created_at DESC").Limit(limit)
	if !who.IsSuperadmin() && who.CompanyID != "" {
		query = query.Where("company_id = ?", who.CompanyID)
	}

	var rows []models.ActivityLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]ActivityEntry, len(rows))
	for i, row := range rows {
		entries[i] = ActivityEntry{
			ID:         row.ID,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Action:     row.Action,
			ActorID:    row.ActorID,
			ActorName:  row.ActorName,
			Summary:    row.Summary,
			CreatedAt:  row.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return entries, nil
}

// Prune deletes activity rows older than the retention window. Run from the
// maintenance scheduler.
func (s *ActivityService) Prune(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infof("pruned %d activity rows older than %s", result.RowsAffected, cutoff.Format("2006-01-02"))
	}
	return nil
}

func summarize(action, entityType, name string) string {
	return fmt.Sprintf("%s %s %q", action, entityType, name)
}
