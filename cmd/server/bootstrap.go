package main

import (
	"github.com/taskflowhq/taskflow/internal/config"
	"github.com/taskflowhq/taskflow/internal/handlers"
	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/internal/utils"
	"github.com/taskflowhq/taskflow/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	activityQueue    services.ActivityQueue
	activityWorker   *services.ActivityWorker
	maintenance      *services.Maintenance
	authHandler      *handlers.AuthHandler
	taskHandler      *handlers.TaskHandler
	companyHandler   *handlers.CompanyHandler
	teamHandler      *handlers.TeamHandler
	userHandler      *handlers.UserHandler
	dashboardHandler *handlers.DashboardHandler
	healthHandler    *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Activity queue (uses Redis if enabled, otherwise inline writes)
	activityQueue := services.NewActivityQueue(&cfg.Redis, db)
	activityService := services.NewActivityService(db, activityQueue)

	// Start async worker if Redis is enabled
	var activityWorker *services.ActivityWorker
	if cfg.Redis.Enabled {
		activityWorker = services.NewActivityWorker(&cfg.Redis, db)
		if activityWorker != nil {
			if err := activityWorker.Start(); err != nil {
				logger.Warnf("Failed to start activity worker: %v", err)
			}
		}
	}

	// Seed default superadmin account
	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateSuperadminIfNotExists(); err != nil {
		logger.Warnf("Failed to create superadmin user: %v", err)
	}

	// Periodic housekeeping: token purge, activity retention, name resync
	authService := services.NewAuthService(db, &cfg.JWT, &cfg.LDAP)
	maintenance := services.NewMaintenance(db, authService, activityService, cfg.Activity.RetentionDays)
	if err := maintenance.Start(); err != nil {
		logger.Warnf("Failed to start maintenance scheduler: %v", err)
	}

	return &appServices{
		activityQueue:    activityQueue,
		activityWorker:   activityWorker,
		maintenance:      maintenance,
		authHandler:      authHandler,
		taskHandler:      handlers.NewTaskHandler(db, activityService),
		companyHandler:   handlers.NewCompanyHandler(db, activityService),
		teamHandler:      handlers.NewTeamHandler(db, activityService),
		userHandler:      handlers.NewUserHandler(db),
		dashboardHandler: handlers.NewDashboardHandler(db, activityService),
		healthHandler:    handlers.NewHealthHandler(db),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.maintenance.Stop()

	if s.activityWorker != nil {
		s.activityWorker.Stop()
	}
	if closer, ok := s.activityQueue.(*services.AsyncQueue); ok {
		if err := closer.Close(); err != nil {
			logger.Warnf("Failed to close activity queue: %v", err)
		}
	}
	logger.Infof("All background services stopped")
}
