package services

import (
	"testing"

	"trainhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFetchAllProgressCompleteness(t *testing.T) {
	db := setupTestDB(t)

	rows := make([]models.Progress, 0, 2500)
	for i := 1; i <= 2500; i++ {
		rows = append(rows, models.Progress{
			UserID:      1,
			LessonID:    uint(i),
			IsCompleted: i%2 == 0,
		})
	}
	require.NoError(t, db.CreateInBatches(rows, 500).Error)

	pageFetches := 0
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test_count_pages", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*[]models.Progress); ok {
			pageFetches++
		}
	}))

	fetched, err := FetchAllProgress(db, ProgressFilter{})
	require.NoError(t, err)

	// 2500 rows at a page size of 1000 means three fetches and no
	// silent truncation.
	assert.Len(t, fetched, 2500)
	assert.Equal(t, 3, pageFetches)

	seen := make(map[uint]bool, len(fetched))
	for _, row := range fetched {
		assert.False(t, seen[row.LessonID], "duplicate row for lesson %d", row.LessonID)
		seen[row.LessonID] = true
	}
}

func TestFetchAllProgressFilters(t *testing.T) {
	db := setupTestDB(t)
	userA := createUser(t, db, "a")
	userB := createUser(t, db, "b")
	module, lessons := createModuleWithLessons(t, db, "M", 2, 60)
	otherModule, otherLessons := createModuleWithLessons(t, db, "Other", 1, 60)

	require.NoError(t, ApproveLesson(db, userA.ID, lessons[0].ID))
	require.NoError(t, ApproveLesson(db, userA.ID, otherLessons[0].ID))
	require.NoError(t, ApproveLesson(db, userB.ID, lessons[1].ID))

	byUser, err := FetchAllProgress(db, ProgressFilter{UserID: userA.ID})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byModule, err := FetchAllProgress(db, ProgressFilter{ModuleID: module.ID})
	require.NoError(t, err)
	assert.Len(t, byModule, 2)

	byBoth, err := FetchAllProgress(db, ProgressFilter{UserID: userA.ID, ModuleID: otherModule.ID})
	require.NoError(t, err)
	assert.Len(t, byBoth, 1)
	assert.Equal(t, otherLessons[0].ID, byBoth[0].LessonID)
}
