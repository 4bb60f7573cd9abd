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

// CompletionController exposes the administrative completion overrides.
// These bypass the learner-side dwell-time rules entirely.
type CompletionController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCompletionController(db *gorm.DB, cfg *config.Config) *CompletionController {
	return &CompletionController{DB: db, Cfg: cfg}
}

type targetUserInput struct {
	UserID uint `json:"user_id" validate:"required"`
}

// ApproveLesson godoc
// @Summary Approve a lesson for a user
// @Description Marks the lesson completed regardless of dwell time
// @Tags completion
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/lessons/{id}/approve [post]
func (cc *CompletionController) ApproveLesson(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input targetUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := services.ApproveLesson(cc.DB, input.UserID, uint(lessonID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not approve lesson")
	}

	return c.JSON(fiber.Map{"message": "Lesson approved"})
}

// ApproveModule godoc
// @Summary Approve a whole module for a user
// @Description Approves every active lesson and completes the assignment,
// @Description creating it when no send-training step happened first
// @Tags completion
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id}/approve [post]
func (cc *CompletionController) ApproveModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	adminID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input targetUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := services.ApproveModule(cc.DB, input.UserID, uint(moduleID), adminID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		if errors.Is(err, services.ErrNoActiveLessons) {
			return utils.Conflict(c, "Module has no active lessons")
		}
		return utils.InternalServerError(c, "Could not approve module")
	}

	return c.JSON(fiber.Map{"message": "Module approved"})
}

// ResetLesson godoc
// @Summary Reset a lesson for a user
// @Description Deletes the progress row; absent progress is not an error
// @Tags completion
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/lessons/{id}/reset [post]
func (cc *CompletionController) ResetLesson(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input targetUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := services.ResetLesson(cc.DB, input.UserID, uint(lessonID)); err != nil {
		return utils.InternalServerError(c, "Could not reset lesson")
	}

	return c.JSON(fiber.Map{"message": "Lesson reset"})
}

// ResetModule godoc
// @Summary Reset a module for a user
// @Description Clears all lesson progress in the module and un-completes
// @Description the assignment without deleting it
// @Tags completion
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id}/reset [post]
func (cc *CompletionController) ResetModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var input targetUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := services.ResetModule(cc.DB, input.UserID, uint(moduleID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not reset module")
	}

	return c.JSON(fiber.Map{"message": "Module reset"})
}
