package services

import (
	"errors"
	"fmt"
	"time"

	"trainhub/config"
	"trainhub/models"
	"trainhub/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Renderer produces the certificate document for a (user, module) pair.
// Rendering is a read-only projection of completion state; a renderer
// failure must not touch the progress or assignment stores.
type Renderer interface {
	Render(user models.User, module models.Module) ([]byte, error)
}

// FileStore persists a rendered document under a stable reference. The
// production implementation is the external storage collaborator.
type FileStore interface {
	Save(ref string, data []byte) error
}

type CertificateManager struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Renderer Renderer
	Store    FileStore
}

func NewCertificateManager(db *gorm.DB, cfg *config.Config, renderer Renderer, store FileStore) *CertificateManager {
	return &CertificateManager{DB: db, Cfg: cfg, Renderer: renderer, Store: store}
}

// Issue renders and appends a new certificate for (user, module) and moves
// the current pointer to it. Prior certificates are never mutated.
func (cm *CertificateManager) Issue(userID, moduleID uint) (*models.Certificate, error) {
	var user models.User
	if err := cm.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var module models.Module
	if err := cm.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Render and store before any row is written, so a generation failure
	// leaves the database untouched.
	data, err := cm.Renderer.Render(user, module)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	serial := uuid.NewString()
	fileRef := fmt.Sprintf("certificates/%s.pdf", serial)
	if err := cm.Store.Save(fileRef, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	certificate := models.Certificate{
		UserID:   userID,
		ModuleID: moduleID,
		Serial:   serial,
		FileURL:  fileRef,
	}

	err = cm.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&certificate).Error; err != nil {
			return err
		}

		var pointer models.CertificatePointer
		err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&pointer).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			pointer = models.CertificatePointer{UserID: userID, ModuleID: moduleID}
		}
		pointer.CertificateID = certificate.ID

		return tx.Save(&pointer).Error
	})
	if err != nil {
		return nil, err
	}

	return &certificate, nil
}

// Regenerate re-issues the certificate. Without force it returns the
// current certificate untouched when one exists; with force it always
// renders and appends a fresh row.
func (cm *CertificateManager) Regenerate(userID, moduleID uint, force bool) (*models.Certificate, error) {
	if !force {
		if current, err := cm.Current(userID, moduleID); err == nil {
			return current, nil
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return cm.Issue(userID, moduleID)
}

// Current resolves the current certificate through the pointer row.
func (cm *CertificateManager) Current(userID, moduleID uint) (*models.Certificate, error) {
	var pointer models.CertificatePointer
	if err := cm.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&pointer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var certificate models.Certificate
	if err := cm.DB.First(&certificate, pointer.CertificateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &certificate, nil
}

// History returns every certificate ever issued for (user, module),
// newest first.
func (cm *CertificateManager) History(userID, moduleID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := cm.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Order("created_at DESC, id DESC").
		Find(&certificates).Error
	return certificates, err
}

// CurrentURL resolves a certificate's stable file reference to a
// short-lived signed URL.
func (cm *CertificateManager) CurrentURL(certificateID uint) (string, error) {
	var certificate models.Certificate
	if err := cm.DB.First(&certificate, certificateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	return utils.SignedFileURL(cm.Cfg, certificate.FileURL, 15*time.Minute), nil
}

// HTMLRenderer is the built-in renderer. It emits a self-contained HTML
// document; the hosted converter turns it into the delivered PDF.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(user models.User, module models.Module) ([]byte, error) {
	if module.Title == "" {
		return nil, errors.New("module has no title")
	}

	name := user.FullName
	if name == "" {
		name = user.Username
	}

	doc := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="text-align:center;font-family:Georgia,serif;">
	<h1>Certificate of Completion</h1>
	<p>This certifies that</p>
	<h2>%s</h2>
	<p>has successfully completed the training module</p>
	<h3>%s</h3>
	<p>%s</p>
</body>
</html>`, name, module.Title, time.Now().Format("January 2, 2006"))

	return []byte(doc), nil
}
