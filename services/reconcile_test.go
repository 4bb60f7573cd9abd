package services

import (
	"testing"

	"trainhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilePromotesFinishedAssignments(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, lessons := createModuleWithLessons(t, db, "M", 2, 60)

	assignment := models.Assignment{UserID: user.ID, ModuleID: module.ID}
	require.NoError(t, db.Create(&assignment).Error)

	// Learner-side completion of every lesson, assignment flag untouched.
	require.NoError(t, ApproveLesson(db, user.ID, lessons[0].ID))
	require.NoError(t, ApproveLesson(db, user.ID, lessons[1].ID))

	promoted, err := ReconcileAssignments(db)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	var reloaded models.Assignment
	require.NoError(t, db.First(&reloaded, assignment.ID).Error)
	assert.True(t, reloaded.IsCompleted)
	assert.NotNil(t, reloaded.CompletedAt)

	// Second run finds nothing to do.
	promoted, err = ReconcileAssignments(db)
	require.NoError(t, err)
	assert.Zero(t, promoted)
}

func TestReconcileIgnoresPartialProgress(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, lessons := createModuleWithLessons(t, db, "M", 2, 60)

	require.NoError(t, db.Create(&models.Assignment{UserID: user.ID, ModuleID: module.ID}).Error)
	require.NoError(t, ApproveLesson(db, user.ID, lessons[0].ID))

	promoted, err := ReconcileAssignments(db)
	require.NoError(t, err)
	assert.Zero(t, promoted)
}

func TestReconcileSkipsEmptyModules(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, _ := createModuleWithLessons(t, db, "Empty", 0, 0)

	require.NoError(t, db.Create(&models.Assignment{UserID: user.ID, ModuleID: module.ID}).Error)

	promoted, err := ReconcileAssignments(db)
	require.NoError(t, err)
	assert.Zero(t, promoted)
}

func TestReconcileCountsOnlyActiveLessons(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "learner")
	module, lessons := createModuleWithLessons(t, db, "M", 1, 60)

	inactive := models.Lesson{ModuleID: module.ID, Title: "retired", Position: 2, IsActive: false}
	require.NoError(t, db.Create(&inactive).Error)

	require.NoError(t, db.Create(&models.Assignment{UserID: user.ID, ModuleID: module.ID}).Error)
	require.NoError(t, ApproveLesson(db, user.ID, lessons[0].ID))

	promoted, err := ReconcileAssignments(db)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)
}
