package services

import (
	"context"
	"time"

	"github.com/rickar/cal/v2"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/models"
)

// dueSoonWorkdays is the business-day window for the "due soon" counter.
// Weekends don't count against it.
const dueSoonWorkdays = 3

// DashboardService aggregates the counters and feed shown on the landing
// screen.
type DashboardService struct {
	db       *gorm.DB
	calendar *cal.BusinessCalendar
	activity *ActivityService
}

func NewDashboardService(db *gorm.DB, activity *ActivityService) *DashboardService {
	return &DashboardService{
		db:       db,
		calendar: cal.NewBusinessCalendar(),
		activity: activity,
	}
}

type DashboardStats struct {
	TotalTasks  int64            `json:"totalTasks"`
	ByStatus    map[string]int64 `json:"byStatus"`
	ByPriority  map[string]int64 `json:"byPriority"`
	Overdue     int64            `json:"overdue"`
	DueSoon     int64            `json:"dueSoon"`
	Companies   int64            `json:"companies"`
	Teams       int64            `json:"teams"`
	TeamMembers int64            `json:"teamMembers"`
}

// Stats computes the dashboard counters for the caller's visible data.
func (s *DashboardService) Stats(ctx context.Context, who Identity) (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	if err := s.scopedTasks(ctx, who).Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := s.scopedTasks(ctx, who).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	var priorityRows []struct {
		Priority string
		Count    int64
	}
	if err := s.scopedTasks(ctx, who).
		Select("priority, count(*) as count").
		Group("priority").
		Scan(&priorityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		stats.ByPriority[row.Priority] = row.Count
	}

	now := time.Now()
	if err := s.scopedTasks(ctx, who).
		Where("due_date < ? AND status != ?", now, models.TaskStatusCompleted).
		Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}

	cutoff := s.workdaysFrom(now, dueSoonWorkdays)
	if err := s.scopedTasks(ctx, who).
		Where("due_date >= ? AND due_date < ? AND status != ?", now, cutoff, models.TaskStatusCompleted).
		Count(&stats.DueSoon).Error; err != nil {
		return nil, err
	}

	companyQuery := s.db.WithContext(ctx).Model(&models.Company{})
	if !who.IsSuperadmin() && who.CompanyID != "" {
		companyQuery = companyQuery.Where("id = ?", who.CompanyID)
	}
	if err := companyQuery.Count(&stats.Companies).Error; err != nil {
		return nil, err
	}

	teamQuery := s.db.WithContext(ctx).Model(&models.Team{})
	memberQuery := s.db.WithContext(ctx).Model(&models.TeamMember{})
	if !who.IsSuperadmin() && who.CompanyID != "" {
		teamQuery = teamQuery.Where("company_id = ?", who.CompanyID)
		memberQuery = memberQuery.
			Joins("JOIN teams ON teams.id = team_members.team_id").
			Where("teams.company_id = ?", who.CompanyID)
	}
	if err := teamQuery.Count(&stats.Teams).Error; err != nil {
		return nil, err
	}
	if err := memberQuery.Count(&stats.TeamMembers).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// RecentActivity returns the newest feed entries visible to the caller.
func (s *DashboardService) RecentActivity(ctx context.Context, who Identity, limit int) ([]ActivityEntry, error) {
	return s.activity.Recent(ctx, who, limit)
}

func (s *DashboardService) scopedTasks(ctx context.Context, who Identity) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Task{})
	if !who.IsSuperadmin() && who.CompanyID != "" {
		query = query.Where("company_id = ?", who.CompanyID)
	}
	return query
}

// workdaysFrom returns the end of the nth business day after start.
func (s *DashboardService) workdaysFrom(start time.Time, workdays int) time.Time {
	day := start
	remaining := workdays
	for remaining > 0 {
		day = day.AddDate(0, 0, 1)
		if s.calendar.IsWorkday(day) {
			remaining--
		}
	}
	return day
}
