package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventNewLesson = "new_lesson"
)

type Notification struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	EventType string `gorm:"not null"`
	Title     string
	Message   string         `gorm:"not null"`
	Payload   datatypes.JSON `gorm:"type:json"`
	IsRead    bool           `gorm:"default:false"`
}

// EmailSetting enables or disables batched email dispatch per event kind.
// In-app notifications are always written; email only goes out when an
// enabled row exists for the event.
type EmailSetting struct {
	gorm.Model
	EventType string `gorm:"unique;not null"`
	Enabled   bool   `gorm:"default:false"`
	Subject   string
}
