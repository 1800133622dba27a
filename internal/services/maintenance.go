package services

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/pkg/logger"
)

// Maintenance runs the periodic housekeeping jobs: expired refresh token
// purge, activity feed retention, and the denormalized company name resync.
type Maintenance struct {
	cron          *cron.Cron
	db            *gorm.DB
	auth          *AuthService
	activity      *ActivityService
	retentionDays int
}

func NewMaintenance(db *gorm.DB, auth *AuthService, activity *ActivityService, retentionDays int) *Maintenance {
	return &Maintenance{
		cron:          cron.New(),
		db:            db,
		auth:          auth,
		activity:      activity,
		retentionDays: retentionDays,
	}
}

// Start schedules the jobs and starts the scheduler.
func (m *Maintenance) Start() error {
	if _, err := m.cron.AddFunc("@hourly", func() {
		if err := m.auth.PurgeExpiredTokens(); err != nil {
			logger.Warnf("token purge failed: %v", err)
		}
	}); err != nil {
		return err
	}

	if _, err := m.cron.AddFunc("@daily", func() {
		if err := m.activity.Prune(m.retentionDays); err != nil {
			logger.Warnf("activity prune failed: %v", err)
		}
	}); err != nil {
		return err
	}

	if _, err := m.cron.AddFunc("@daily", func() {
		if err := m.ResyncCompanyNames(); err != nil {
			logger.Warnf("company name resync failed: %v", err)
		}
	}); err != nil {
		return err
	}

	m.cron.Start()
	logger.Infof("maintenance scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	logger.Infof("maintenance scheduler stopped")
}

// ResyncCompanyNames repairs the denormalized company name on users from the
// companies table. The rename path updates it inline; this catches anything
// that slipped through.
func (m *Maintenance) ResyncCompanyNames() error {
	return m.db.Exec(`
		UPDATE users
		SET company_name = (SELECT name FROM companies WHERE companies.id = users.company_id)
		WHERE company_id IS NOT NULL
	`).Error
}
