package models

import "gorm.io/gorm"

// Certificate rows are append-only: regeneration inserts a new row and the
// old ones stay as history.
type Certificate struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null"`
	ModuleID uint   `gorm:"index;not null"`
	Serial   string `gorm:"unique;not null"`
	FileURL  string `gorm:"not null"` // stable storage ref, signed at read time
}

// CertificatePointer tracks the current certificate per (user, module) so
// reads don't need an ORDER BY over the growing history table. Updated in
// the same transaction as each Certificate insert.
type CertificatePointer struct {
	gorm.Model
	UserID        uint `gorm:"index:idx_cert_user_module,unique;not null"`
	ModuleID      uint `gorm:"index:idx_cert_user_module,unique;not null"`
	CertificateID uint `gorm:"not null"`
}
