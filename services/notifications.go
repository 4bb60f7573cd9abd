package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"trainhub/models"
	"trainhub/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// emailBatchSize bounds how many sends are in flight at once.
const emailBatchSize = 5

// DispatchReport is the caller-visible accounting for one fan-out. Partial
// email failure is reported here, not surfaced as an error.
type DispatchReport struct {
	InAppSent    int `json:"in_app_sent"`
	EmailsSent   int `json:"emails_sent"`
	EmailsFailed int `json:"emails_failed"`
}

// NotifyNewLesson fans out "new required content" notifications after a
// lesson is added to a module. Only users with at least one completed
// lesson in the module are notified; users holding a certificate for the
// module get the "your certificate remains valid" wording, the rest are
// told to complete the new material. The operation is best-effort and must
// never block the lesson creation that triggered it.
func NotifyNewLesson(db *gorm.DB, mailer utils.Mailer, logger *log.Logger, module models.Module, lesson models.Lesson) (DispatchReport, error) {
	var report DispatchReport

	certifiedIDs, err := certifiedUserIDs(db, module.ID)
	if err != nil {
		return report, err
	}

	affectedIDs, err := affectedUserIDs(db, module.ID)
	if err != nil {
		return report, err
	}
	if len(affectedIDs) == 0 {
		return report, nil
	}

	payload, _ := json.Marshal(lessonPayload{ModuleID: module.ID, LessonID: lesson.ID, LessonTitle: lesson.Title})

	notifications := make([]models.Notification, 0, len(affectedIDs))
	for _, userID := range affectedIDs {
		message := fmt.Sprintf("A new lesson %q was added to %q. Complete all lessons to obtain your certificate.", lesson.Title, module.Title)
		if certifiedIDs[userID] {
			message = fmt.Sprintf("A new lesson %q was added to %q. Your certificate remains valid, but review the new material.", lesson.Title, module.Title)
		}

		notifications = append(notifications, models.Notification{
			UserID:    userID,
			EventType: models.EventNewLesson,
			Title:     "New lesson: " + lesson.Title,
			Message:   message,
			Payload:   datatypes.JSON(payload),
		})
	}

	if err := db.Create(&notifications).Error; err != nil {
		return report, err
	}
	report.InAppSent = len(notifications)

	// Mark the touched assignments so the dashboard can show who was told.
	if err := db.Model(&models.Assignment{}).
		Where("module_id = ? AND user_id IN ?", module.ID, affectedIDs).
		Update("notification_sent", true).Error; err != nil && logger != nil {
		logger.Printf("notification flag update failed for module %d: %v", module.ID, err)
	}

	sent, failed := dispatchEmails(db, mailer, logger, module, lesson, affectedIDs, certifiedIDs)
	report.EmailsSent = sent
	report.EmailsFailed = failed

	return report, nil
}

type lessonPayload struct {
	ModuleID    uint   `json:"module_id"`
	LessonID    uint   `json:"lesson_id"`
	LessonTitle string `json:"lesson_title"`
}

func certifiedUserIDs(db *gorm.DB, moduleID uint) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&models.Certificate{}).
		Distinct("user_id").
		Where("module_id = ?", moduleID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func affectedUserIDs(db *gorm.DB, moduleID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Progress{}).
		Distinct("progresses.user_id").
		Joins("JOIN lessons ON lessons.id = progresses.lesson_id").
		Where("lessons.module_id = ? AND progresses.is_completed = ?", moduleID, true).
		Pluck("progresses.user_id", &ids).Error
	return ids, err
}

// dispatchEmails sends in fixed-size batches. Each batch is tallied on its
// own; a failed send never aborts the batches after it.
func dispatchEmails(db *gorm.DB, mailer utils.Mailer, logger *log.Logger, module models.Module, lesson models.Lesson, userIDs []uint, certified map[uint]bool) (sent, failed int) {
	if mailer == nil {
		return 0, 0
	}

	var setting models.EmailSetting
	err := db.Where("event_type = ? AND enabled = ?", models.EventNewLesson, true).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && logger != nil {
			logger.Printf("email settings lookup failed: %v", err)
		}
		return 0, 0
	}

	var users []models.User
	if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		if logger != nil {
			logger.Printf("recipient lookup failed: %v", err)
		}
		return 0, 0
	}

	subject := setting.Subject
	if subject == "" {
		subject = "New training content available"
	}

	for start := 0; start < len(users); start += emailBatchSize {
		end := start + emailBatchSize
		if end > len(users) {
			end = len(users)
		}
		batch := users[start:end]

		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, user := range batch {
			if user.Email == "" {
				continue
			}

			wg.Add(1)
			go func(u models.User) {
				defer wg.Done()

				body := emailBody(u, module, lesson, certified[u.ID])
				if err := mailer.Send(u.Email, subject, body); err != nil {
					if logger != nil {
						logger.Printf("email to user %d failed: %v", u.ID, err)
					}
					mu.Lock()
					failed++
					mu.Unlock()
					return
				}

				mu.Lock()
				sent++
				mu.Unlock()
			}(user)
		}
		wg.Wait()
	}

	return sent, failed
}

func emailBody(user models.User, module models.Module, lesson models.Lesson, isCertified bool) string {
	name := user.FullName
	if name == "" {
		name = user.Username
	}

	if isCertified {
		return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new lesson <strong>%s</strong> was added to <strong>%s</strong>.</p>
		<p>Your certificate remains valid, but please review the new material.</p>
	`, name, lesson.Title, module.Title)
	}

	return fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new lesson <strong>%s</strong> was added to <strong>%s</strong>.</p>
		<p>Complete all lessons to obtain your certificate.</p>
	`, name, lesson.Title, module.Title)
}
