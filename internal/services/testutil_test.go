package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	utils.SetJWTSecret("test-secret")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Company{},
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
		&models.Todo{},
		&models.Comment{},
		&models.Attachment{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func newActivityService(db *gorm.DB) *ActivityService {
	return NewActivityService(db, NewSyncQueue(db))
}

func superadmin() Identity {
	return Identity{UserID: "sa-1", Username: "root", Role: models.RoleSuperadmin}
}

func companyUser(userID, companyID string) Identity {
	return Identity{UserID: userID, Username: "user-" + userID, Role: models.RoleUser, CompanyID: companyID}
}

func seedCompany(t *testing.T, db *gorm.DB, name string) models.Company {
	t.Helper()
	company := models.Company{Name: name, Status: models.CompanyStatusActive}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	return company
}

func seedUser(t *testing.T, db *gorm.DB, username, companyID string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Role:     models.RoleUser,
		AuthType: "local",
		IsActive: true,
	}
	if companyID != "" {
		user.CompanyID = &companyID
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
