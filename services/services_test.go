package services

import (
	"testing"

	"trainhub/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database. Open connections are
// capped at one so every query sees the same memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Module{},
		&models.Lesson{},
		&models.Assignment{},
		&models.Progress{},
		&models.Certificate{},
		&models.CertificatePointer{},
		&models.Notification{},
		&models.EmailSetting{},
	))

	return db
}

func createModuleWithLessons(t *testing.T, db *gorm.DB, title string, lessonCount int, minTime int) (models.Module, []models.Lesson) {
	t.Helper()

	module := models.Module{Title: title, IsActive: true}
	require.NoError(t, db.Create(&module).Error)

	lessons := make([]models.Lesson, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lesson := models.Lesson{
			ModuleID:       module.ID,
			Title:          title + " lesson",
			Position:       i + 1,
			MinTimeSeconds: minTime,
			IsActive:       true,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	return module, lessons
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
