package controllers

import (
	"errors"

	"trainhub/config"
	"trainhub/models"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSettingsController(db *gorm.DB, cfg *config.Config) *SettingsController {
	return &SettingsController{DB: db, Cfg: cfg}
}

// GetEmailSettings godoc
// @Summary List email notification settings
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/settings/email [get]
func (sc *SettingsController) GetEmailSettings(c *fiber.Ctx) error {
	var settings []models.EmailSetting
	if err := sc.DB.Order("event_type ASC").Find(&settings).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateEmailSetting godoc
// @Summary Enable or disable email dispatch for an event kind
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/settings/email [put]
func (sc *SettingsController) UpdateEmailSetting(c *fiber.Ctx) error {
	type SettingInput struct {
		EventType string `json:"event_type" validate:"required"`
		Enabled   bool   `json:"enabled"`
		Subject   string `json:"subject"`
	}

	var input SettingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var setting models.EmailSetting
	err := sc.DB.Where("event_type = ?", input.EventType).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		setting = models.EmailSetting{EventType: input.EventType}
	}

	setting.Enabled = input.Enabled
	if input.Subject != "" {
		setting.Subject = input.Subject
	}

	if err := sc.DB.Save(&setting).Error; err != nil {
		return utils.InternalServerError(c, "Could not update setting")
	}

	return c.JSON(fiber.Map{
		"message": "Setting updated",
		"setting": setting,
	})
}
