package controllers

import (
	"errors"
	"time"

	"trainhub/config"
	"trainhub/models"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssignmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAssignmentsController(db *gorm.DB, cfg *config.Config) *AssignmentsController {
	return &AssignmentsController{DB: db, Cfg: cfg}
}

// SendTraining godoc
// @Summary Assign a module to a user
// @Description Upserts the (user, module) assignment. Re-sending an
// @Description existing assignment is a no-op on its completion state.
// @Tags assignments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/assignments [post]
func (ac *AssignmentsController) SendTraining(c *fiber.Ctx) error {
	adminID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type AssignInput struct {
		UserID   uint `json:"user_id" validate:"required"`
		ModuleID uint `json:"module_id" validate:"required"`
	}

	var input AssignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var user models.User
	if err := ac.DB.First(&user, input.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var module models.Module
	if err := ac.DB.First(&module, input.ModuleID).Error; err != nil {
		return utils.NotFound(c, "Module not found")
	}

	var assignment models.Assignment
	err = ac.DB.Where("user_id = ? AND module_id = ?", input.UserID, input.ModuleID).First(&assignment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		assignment = models.Assignment{
			UserID:     input.UserID,
			ModuleID:   input.ModuleID,
			AssignedBy: &adminID,
			AssignedAt: time.Now(),
		}
		if err := ac.DB.Create(&assignment).Error; err != nil {
			return utils.InternalServerError(c, "Could not create assignment")
		}
	}

	return c.JSON(fiber.Map{
		"message":    "Training assigned",
		"assignment": assignment,
	})
}

// ListAssignments godoc
// @Summary List assignments
// @Description Optionally filtered by module via the module_id query param
// @Tags assignments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/assignments [get]
func (ac *AssignmentsController) ListAssignments(c *fiber.Ctx) error {
	query := ac.DB.Model(&models.Assignment{}).Order("assigned_at DESC")

	if moduleID := c.QueryInt("module_id"); moduleID > 0 {
		query = query.Where("module_id = ?", moduleID)
	}
	if userID := c.QueryInt("user_id"); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	var assignments []models.Assignment
	if err := query.Find(&assignments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"assignments": assignments})
}
