package services

import (
	"testing"
	"time"

	"trainhub/models"

	"github.com/stretchr/testify/assert"
)

func TestAggregateZeroLessons(t *testing.T) {
	assignments := []models.Assignment{
		{UserID: 1, ModuleID: 7, AssignedAt: time.Now()},
	}
	lessonsByModule := map[uint][]models.Lesson{7: {}}

	views := Aggregate(assignments, lessonsByModule, nil)

	assert.Len(t, views, 1)
	assert.Equal(t, 0, views[0].TotalLessons)
	assert.Equal(t, 0, views[0].ProgressPercentage)
}

func TestAggregateSkipsUnjoinableAssignments(t *testing.T) {
	assignments := []models.Assignment{
		{UserID: 1, ModuleID: 7},
		{UserID: 1, ModuleID: 8}, // no lesson data fetched for module 8
	}
	lessonsByModule := map[uint][]models.Lesson{7: {}}

	views := Aggregate(assignments, lessonsByModule, nil)

	assert.Len(t, views, 1)
	assert.Equal(t, uint(7), views[0].ModuleID)
}

func TestAggregatePartialCompletion(t *testing.T) {
	l1 := models.Lesson{ModuleID: 7, Title: "L1", Position: 1}
	l1.ID = 10
	l2 := models.Lesson{ModuleID: 7, Title: "L2", Position: 2}
	l2.ID = 11

	assignments := []models.Assignment{{UserID: 1, ModuleID: 7}}
	lessonsByModule := map[uint][]models.Lesson{7: {l2, l1}} // unsorted on purpose
	progress := map[ProgressKey]models.Progress{
		{UserID: 1, LessonID: 10}: {UserID: 1, LessonID: 10, IsCompleted: true, TimeSpentSeconds: 120},
	}

	views := Aggregate(assignments, lessonsByModule, progress)

	assert.Len(t, views, 1)
	view := views[0]
	assert.Equal(t, 2, view.TotalLessons)
	assert.Equal(t, 1, view.CompletedLessons)
	assert.Equal(t, 50, view.ProgressPercentage)

	// Detail rows come back ordered by position.
	assert.Equal(t, uint(10), view.Lessons[0].LessonID)
	assert.Equal(t, uint(11), view.Lessons[1].LessonID)
	assert.True(t, view.Lessons[0].IsCompleted)
	assert.False(t, view.Lessons[1].IsCompleted)
	assert.Equal(t, 120, view.Lessons[0].TimeSpentSeconds)
}

func TestAggregatePositionTiesBreakByCreation(t *testing.T) {
	a := models.Lesson{ModuleID: 7, Title: "first", Position: 1}
	a.ID = 5
	b := models.Lesson{ModuleID: 7, Title: "second", Position: 1}
	b.ID = 6

	views := Aggregate(
		[]models.Assignment{{UserID: 1, ModuleID: 7}},
		map[uint][]models.Lesson{7: {b, a}},
		nil,
	)

	assert.Equal(t, uint(5), views[0].Lessons[0].LessonID)
	assert.Equal(t, uint(6), views[0].Lessons[1].LessonID)
}

func TestAggregateRounding(t *testing.T) {
	lessons := make([]models.Lesson, 3)
	for i := range lessons {
		lessons[i] = models.Lesson{ModuleID: 7, Position: i + 1}
		lessons[i].ID = uint(20 + i)
	}

	progress := map[ProgressKey]models.Progress{
		{UserID: 1, LessonID: 20}: {UserID: 1, LessonID: 20, IsCompleted: true},
	}

	views := Aggregate(
		[]models.Assignment{{UserID: 1, ModuleID: 7}},
		map[uint][]models.Lesson{7: lessons},
		progress,
	)

	// 1/3 rounds to 33, not truncated float noise.
	assert.Equal(t, 33, views[0].ProgressPercentage)
}
