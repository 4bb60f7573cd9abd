package controllers

import (
	"errors"
	"strconv"

	"trainhub/config"
	"trainhub/models"
	"trainhub/services"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProgressController serves the aggregated dashboard views. All progress
// reads go through the bulk helper so row-cap truncation can never skew
// the percentages.
type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// GetModuleProgress godoc
// @Summary Per-user progress for one module
// @Description The admin table behind a module: one row per assigned user
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id}/progress [get]
func (pc *ProgressController) GetModuleProgress(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := pc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var assignments []models.Assignment
	if err := pc.DB.Where("module_id = ?", moduleID).Find(&assignments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var lessons []models.Lesson
	if err := pc.DB.Where("module_id = ? AND is_active = ?", moduleID, true).Find(&lessons).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	rows, err := services.FetchAllProgress(pc.DB, services.ProgressFilter{ModuleID: uint(moduleID)})
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	views := services.Aggregate(
		assignments,
		map[uint][]models.Lesson{uint(moduleID): lessons},
		services.BuildProgressIndex(rows),
	)

	result := make([]fiber.Map, 0, len(views))
	for _, view := range views {
		var user models.User
		if err := pc.DB.First(&user, view.UserID).Error; err != nil {
			// Foreign data gap: the row isn't joinable yet, skip it.
			continue
		}

		result = append(result, fiber.Map{
			"user_id":             view.UserID,
			"username":            user.Username,
			"total_lessons":       view.TotalLessons,
			"completed_lessons":   view.CompletedLessons,
			"progress_percentage": view.ProgressPercentage,
			"is_completed":        view.IsCompleted,
			"lessons":             view.Lessons,
		})
	}

	return c.JSON(fiber.Map{
		"module":   fiber.Map{"id": module.ID, "title": module.Title},
		"progress": result,
	})
}

// GetUserProgress godoc
// @Summary A user's progress across all assigned modules
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/progress [get]
func (pc *ProgressController) GetUserProgress(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var assignments []models.Assignment
	if err := pc.DB.Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	lessonsByModule := make(map[uint][]models.Lesson, len(assignments))
	for _, assignment := range assignments {
		var lessons []models.Lesson
		if err := pc.DB.Where("module_id = ? AND is_active = ?", assignment.ModuleID, true).Find(&lessons).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		lessonsByModule[assignment.ModuleID] = lessons
	}

	rows, err := services.FetchAllProgress(pc.DB, services.ProgressFilter{UserID: uint(userID)})
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	views := services.Aggregate(assignments, lessonsByModule, services.BuildProgressIndex(rows))

	return c.JSON(fiber.Map{
		"user":    fiber.Map{"id": user.ID, "username": user.Username},
		"modules": views,
	})
}
