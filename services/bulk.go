package services

import (
	"trainhub/models"

	"gorm.io/gorm"
)

// progressPageSize matches the backend's silent per-request row cap.
const progressPageSize = 1000

// ProgressFilter narrows a bulk progress read. Zero values mean "no filter".
type ProgressFilter struct {
	UserID   uint
	ModuleID uint
	LessonID uint
}

// FetchAllProgress reads the complete progress dataset matching the filter,
// paging in fixed-size chunks. The data source caps single-request row
// counts without raising an error, so anything that feeds the aggregator
// must go through here; a silently truncated read would corrupt the
// completion-percentage math. Pages are fetched sequentially, and the loop
// stops on the first short or empty page.
func FetchAllProgress(db *gorm.DB, filter ProgressFilter) ([]models.Progress, error) {
	var all []models.Progress
	offset := 0

	for {
		query := db.Model(&models.Progress{}).Order("progresses.id ASC")

		if filter.UserID != 0 {
			query = query.Where("progresses.user_id = ?", filter.UserID)
		}
		if filter.LessonID != 0 {
			query = query.Where("progresses.lesson_id = ?", filter.LessonID)
		}
		if filter.ModuleID != 0 {
			query = query.
				Joins("JOIN lessons ON lessons.id = progresses.lesson_id").
				Where("lessons.module_id = ?", filter.ModuleID)
		}

		var page []models.Progress
		if err := query.Limit(progressPageSize).Offset(offset).Find(&page).Error; err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < progressPageSize {
			return all, nil
		}
		offset += progressPageSize
	}
}
