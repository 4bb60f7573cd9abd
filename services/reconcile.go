package services

import (
	"log"
	"time"

	"trainhub/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReconcileAssignments promotes assignments whose active lessons are all
// completed but whose completion flag is still false. Learner progress
// lands through the external player, which never touches the assignment
// row; this pass keeps the module-level flag consistent with the
// lesson-level facts. It only promotes: demotion stays an explicit admin
// action (ResetModule). Idempotent, safe to re-run.
func ReconcileAssignments(db *gorm.DB) (promoted int, err error) {
	var assignments []models.Assignment
	if err := db.Where("is_completed = ?", false).Find(&assignments).Error; err != nil {
		return 0, err
	}

	for _, assignment := range assignments {
		var total int64
		if err := db.Model(&models.Lesson{}).
			Where("module_id = ? AND is_active = ?", assignment.ModuleID, true).
			Count(&total).Error; err != nil {
			return promoted, err
		}
		if total == 0 {
			continue
		}

		var completed int64
		if err := db.Model(&models.Progress{}).
			Joins("JOIN lessons ON lessons.id = progresses.lesson_id").
			Where("progresses.user_id = ? AND progresses.is_completed = ? AND lessons.module_id = ? AND lessons.is_active = ?",
				assignment.UserID, true, assignment.ModuleID, true).
			Count(&completed).Error; err != nil {
			return promoted, err
		}

		if completed < total {
			continue
		}

		now := time.Now()
		err := db.Model(&models.Assignment{}).
			Where("id = ?", assignment.ID).
			Updates(map[string]interface{}{
				"is_completed": true,
				"completed_at": now,
			}).Error
		if err != nil {
			return promoted, err
		}
		promoted++
	}

	return promoted, nil
}

// StartReconciler runs the reconciliation pass every five minutes.
func StartReconciler(db *gorm.DB, logger *log.Logger) *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 5m", func() {
		promoted, err := ReconcileAssignments(db)
		if err != nil {
			logger.Printf("reconcile failed: %v", err)
			return
		}
		if promoted > 0 {
			logger.Printf("reconcile promoted %d assignments", promoted)
		}
	})
	c.Start()
	return c
}
