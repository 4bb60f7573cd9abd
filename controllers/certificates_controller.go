package controllers

import (
	"errors"
	"strconv"

	"trainhub/config"
	"trainhub/services"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CertificatesController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Manager *services.CertificateManager
}

func NewCertificatesController(db *gorm.DB, cfg *config.Config, manager *services.CertificateManager) *CertificatesController {
	return &CertificatesController{DB: db, Cfg: cfg, Manager: manager}
}

type certificateInput struct {
	UserID   uint `json:"user_id" validate:"required"`
	ModuleID uint `json:"module_id" validate:"required"`
	Force    bool `json:"force"`
}

// IssueCertificate godoc
// @Summary Issue a certificate
// @Tags certificates
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/certificates [post]
func (cc *CertificatesController) IssueCertificate(c *fiber.Ctx) error {
	var input certificateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	certificate, err := cc.Manager.Issue(input.UserID, input.ModuleID)
	if err != nil {
		return cc.certificateError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Certificate issued",
		"certificate": certificate,
	})
}

// RegenerateCertificate godoc
// @Summary Regenerate a certificate
// @Description Appends a fresh certificate row; history is never mutated.
// @Description Without force, an existing current certificate is returned as-is.
// @Tags certificates
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/certificates/regenerate [post]
func (cc *CertificatesController) RegenerateCertificate(c *fiber.Ctx) error {
	var input certificateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	certificate, err := cc.Manager.Regenerate(input.UserID, input.ModuleID, input.Force)
	if err != nil {
		return cc.certificateError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Certificate regenerated",
		"certificate": certificate,
	})
}

// CertificateHistory godoc
// @Summary List certificate history
// @Description Newest first; prior artifacts stay retrievable forever
// @Tags certificates
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/certificates/history [get]
func (cc *CertificatesController) CertificateHistory(c *fiber.Ctx) error {
	userID := c.QueryInt("user_id")
	moduleID := c.QueryInt("module_id")
	if userID <= 0 || moduleID <= 0 {
		return utils.BadRequest(c, "user_id and module_id are required")
	}

	history, err := cc.Manager.History(uint(userID), uint(moduleID))
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"certificates": history})
}

// CertificateURL godoc
// @Summary Get a signed download URL
// @Description Resolves the stable file ref to a short-lived signed URL
// @Tags certificates
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /certificates/{id}/url [get]
func (cc *CertificatesController) CertificateURL(c *fiber.Ctx) error {
	certificateID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid certificate ID")
	}

	url, err := cc.Manager.CurrentURL(uint(certificateID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFound(c, "Certificate not found")
		}
		return utils.InternalServerError(c, "Could not resolve certificate URL")
	}

	return c.JSON(fiber.Map{"url": url})
}

func (cc *CertificatesController) certificateError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFound(c, "User or module not found")
	}
	if errors.Is(err, services.ErrGenerationFailed) {
		return utils.Error(c, fiber.StatusBadGateway, err)
	}
	return utils.InternalServerError(c, "Could not issue certificate")
}
