package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment records that a user must complete a module. One row per
// (user, module); writes go through upserts on that key.
type Assignment struct {
	gorm.Model
	UserID           uint       `gorm:"index:idx_user_module,unique;not null"`
	ModuleID         uint       `gorm:"index:idx_user_module,unique;not null"`
	AssignedBy       *uint      // nil for system-assigned
	AssignedAt       time.Time  `gorm:"not null"`
	IsCompleted      bool       `gorm:"default:false"`
	CompletedAt      *time.Time
	NotificationSent bool `gorm:"default:false"`
}

// Progress records a user's engagement with a single lesson. One row per
// (user, lesson).
type Progress struct {
	gorm.Model
	UserID               uint `gorm:"index:idx_user_lesson,unique;not null"`
	LessonID             uint `gorm:"index:idx_user_lesson,unique;not null"`
	IsCompleted          bool `gorm:"default:false"`
	TimeSpentSeconds     int  `gorm:"default:0"`
	VideoPositionSeconds int  `gorm:"default:0"`
	CompletedAt          *time.Time
}
