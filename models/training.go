package models

import "gorm.io/gorm"

type Module struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	AuthorID    uint
	IsActive    bool     `gorm:"default:true"`
	Visibility  string   `gorm:"default:all"` // all, partners, staff
	Lessons     []Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	gorm.Model
	ModuleID       uint   `gorm:"index;not null"`
	Title          string `gorm:"not null"`
	Content        string
	VideoURL       string
	Position       int  `gorm:"default:0"`
	MinTimeSeconds int  `gorm:"default:0"`
	IsActive       bool `gorm:"default:true"`
}
