package services

import (
	"math"
	"sort"

	"trainhub/models"
)

// ProgressKey identifies a single (user, lesson) progress fact.
type ProgressKey struct {
	UserID   uint
	LessonID uint
}

// LessonDetail is one row of the per-lesson breakdown inside a module view.
type LessonDetail struct {
	LessonID             uint   `json:"lesson_id"`
	Title                string `json:"title"`
	Position             int    `json:"position"`
	IsCompleted          bool   `json:"is_completed"`
	TimeSpentSeconds     int    `json:"time_spent_seconds"`
	VideoPositionSeconds int    `json:"video_position_seconds"`
}

// ModuleProgressView is the derived completion state for one assignment.
type ModuleProgressView struct {
	UserID             uint           `json:"user_id"`
	ModuleID           uint           `json:"module_id"`
	TotalLessons       int            `json:"total_lessons"`
	CompletedLessons   int            `json:"completed_lessons"`
	ProgressPercentage int            `json:"progress_percentage"`
	IsCompleted        bool           `json:"is_completed"`
	Lessons            []LessonDetail `json:"lessons"`
}

// Aggregate builds one ModuleProgressView per assignment. lessonsByModule
// must already be filtered to active lessons; assignments whose module has
// no lesson data are skipped rather than treated as an error, since a
// missing join target just means the data is not there yet.
func Aggregate(assignments []models.Assignment, lessonsByModule map[uint][]models.Lesson, progress map[ProgressKey]models.Progress) []ModuleProgressView {
	views := make([]ModuleProgressView, 0, len(assignments))

	for _, assignment := range assignments {
		lessons, ok := lessonsByModule[assignment.ModuleID]
		if !ok {
			continue
		}

		ordered := make([]models.Lesson, len(lessons))
		copy(ordered, lessons)
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Position != ordered[j].Position {
				return ordered[i].Position < ordered[j].Position
			}
			// Ties break by creation order.
			return ordered[i].ID < ordered[j].ID
		})

		view := ModuleProgressView{
			UserID:      assignment.UserID,
			ModuleID:    assignment.ModuleID,
			IsCompleted: assignment.IsCompleted,
			Lessons:     make([]LessonDetail, 0, len(ordered)),
		}

		for _, lesson := range ordered {
			detail := LessonDetail{
				LessonID: lesson.ID,
				Title:    lesson.Title,
				Position: lesson.Position,
			}

			if p, found := progress[ProgressKey{UserID: assignment.UserID, LessonID: lesson.ID}]; found {
				detail.IsCompleted = p.IsCompleted
				detail.TimeSpentSeconds = p.TimeSpentSeconds
				detail.VideoPositionSeconds = p.VideoPositionSeconds
				if p.IsCompleted {
					view.CompletedLessons++
				}
			}

			view.Lessons = append(view.Lessons, detail)
		}

		view.TotalLessons = len(ordered)
		if view.TotalLessons > 0 {
			view.ProgressPercentage = int(math.Round(float64(view.CompletedLessons) / float64(view.TotalLessons) * 100))
		}

		views = append(views, view)
	}

	return views
}

// BuildProgressIndex keys fetched progress rows for Aggregate.
func BuildProgressIndex(rows []models.Progress) map[ProgressKey]models.Progress {
	index := make(map[ProgressKey]models.Progress, len(rows))
	for _, row := range rows {
		index[ProgressKey{UserID: row.UserID, LessonID: row.LessonID}] = row
	}
	return index
}
