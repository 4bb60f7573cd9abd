package services

import (
	"errors"
	"time"

	"trainhub/models"

	"gorm.io/gorm"
)

// defaultMinTime is the dwell time credited by an admin approval when the
// lesson has no minimum configured.
const defaultMinTime = 300

// ApproveLesson marks a lesson completed for a user, bypassing the
// learner-side dwell-time gate. Idempotent: repeated calls leave the same
// row state. The progress row is created if absent, overwritten otherwise.
func ApproveLesson(db *gorm.DB, userID, lessonID uint) error {
	var lesson models.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return approveLessonTx(tx, userID, lesson)
	})
}

func approveLessonTx(tx *gorm.DB, userID uint, lesson models.Lesson) error {
	minTime := lesson.MinTimeSeconds
	if minTime <= 0 {
		minTime = defaultMinTime
	}
	now := time.Now()

	var progress models.Progress
	err := tx.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		progress = models.Progress{UserID: userID, LessonID: lesson.ID}
	}

	progress.IsCompleted = true
	progress.TimeSpentSeconds = minTime
	progress.CompletedAt = &now

	return tx.Save(&progress).Error
}

// ApproveModule approves every active lesson in the module and marks the
// assignment completed, creating the assignment if it does not exist yet.
// This is the admin escape hatch: certification without a prior
// send-training step. Runs as a single transaction so a failure leaves no
// half-approved module behind.
func ApproveModule(db *gorm.DB, userID, moduleID, approvedBy uint) error {
	var module models.Module
	if err := db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var lessons []models.Lesson
	if err := db.Where("module_id = ? AND is_active = ?", moduleID, true).Find(&lessons).Error; err != nil {
		return err
	}
	if len(lessons) == 0 {
		return ErrNoActiveLessons
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, lesson := range lessons {
			if err := approveLessonTx(tx, userID, lesson); err != nil {
				return err
			}
		}

		now := time.Now()

		var assignment models.Assignment
		err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&assignment).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			assignment = models.Assignment{
				UserID:     userID,
				ModuleID:   moduleID,
				AssignedBy: &approvedBy,
				AssignedAt: now,
			}
		}

		assignment.IsCompleted = true
		assignment.CompletedAt = &now

		return tx.Save(&assignment).Error
	})
}

// ResetLesson removes the progress row for (user, lesson). Absence is not
// an error.
func ResetLesson(db *gorm.DB, userID, lessonID uint) error {
	return db.Unscoped().
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&models.Progress{}).Error
}

// ResetModule deletes all of the user's progress rows across every lesson
// in the module and flips the assignment back to incomplete. The assignment
// itself stays: the user remains enrolled, just un-completed. Single
// transaction, same reasoning as ApproveModule.
func ResetModule(db *gorm.DB, userID, moduleID uint) error {
	var module models.Module
	if err := db.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var lessonIDs []uint
	if err := db.Model(&models.Lesson{}).Where("module_id = ?", moduleID).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if len(lessonIDs) > 0 {
			if err := tx.Unscoped().
				Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
				Delete(&models.Progress{}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Assignment{}).
			Where("user_id = ? AND module_id = ?", userID, moduleID).
			Updates(map[string]interface{}{
				"is_completed": false,
				"completed_at": nil,
			}).Error
	})
}
