package controllers

import (
	"errors"
	"log"
	"strconv"

	"trainhub/config"
	"trainhub/models"
	"trainhub/services"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ModulesController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mailer utils.Mailer
	Logger *log.Logger
}

func NewModulesController(db *gorm.DB, cfg *config.Config, mailer utils.Mailer, logger *log.Logger) *ModulesController {
	return &ModulesController{DB: db, Cfg: cfg, Mailer: mailer, Logger: logger}
}

// ListModules godoc
// @Summary List training modules
// @Description Returns all modules with lesson counts for the admin table
// @Tags modules
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/modules [get]
func (mc *ModulesController) ListModules(c *fiber.Ctx) error {
	var modules []models.Module
	if err := mc.DB.Order("id ASC").Find(&modules).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var result []fiber.Map
	for _, module := range modules {
		var lessonCount int64
		mc.DB.Model(&models.Lesson{}).Where("module_id = ? AND is_active = ?", module.ID, true).Count(&lessonCount)

		var assignedCount int64
		mc.DB.Model(&models.Assignment{}).Where("module_id = ?", module.ID).Count(&assignedCount)

		result = append(result, fiber.Map{
			"id":         module.ID,
			"title":      module.Title,
			"is_active":  module.IsActive,
			"visibility": module.Visibility,
			"lessons":    lessonCount,
			"assigned":   assignedCount,
		})
	}

	return c.JSON(fiber.Map{"modules": result})
}

// GetModuleDetails godoc
// @Summary Get module details
// @Description Returns a module with its lessons in display order
// @Tags modules
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id} [get]
func (mc *ModulesController) GetModuleDetails(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := mc.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"module": module})
}

// CreateModule godoc
// @Summary Create a training module
// @Tags modules
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules [post]
func (mc *ModulesController) CreateModule(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, mc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type ModuleInput struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Visibility  string `json:"visibility"`
	}

	var input ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	module := models.Module{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    userID,
		IsActive:    true,
	}
	if input.Visibility != "" {
		module.Visibility = input.Visibility
	}

	if err := mc.DB.Create(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not create module")
	}

	return c.JSON(fiber.Map{
		"message": "Module created",
		"module":  module,
	})
}

// UpdateModule godoc
// @Summary Update a training module
// @Tags modules
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id} [put]
func (mc *ModulesController) UpdateModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Visibility  string `json:"visibility"`
		IsActive    *bool  `json:"is_active"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var module models.Module
	if err := mc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Title != "" {
		module.Title = input.Title
	}
	if input.Description != "" {
		module.Description = input.Description
	}
	if input.Visibility != "" {
		module.Visibility = input.Visibility
	}
	if input.IsActive != nil {
		module.IsActive = *input.IsActive
	}

	if err := mc.DB.Save(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not update module")
	}

	return c.JSON(fiber.Map{
		"message": "Module updated",
		"module":  module,
	})
}

// AddLesson godoc
// @Summary Add a lesson to a module
// @Description Creates the lesson and fans out new-content notifications.
// @Description Notification dispatch is best-effort and never fails the create.
// @Tags modules
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id}/lessons [post]
func (mc *ModulesController) AddLesson(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	type LessonInput struct {
		Title          string `json:"title" validate:"required"`
		Content        string `json:"content"`
		VideoURL       string `json:"video_url"`
		MinTimeSeconds int    `json:"min_time_seconds"`
	}

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	var module models.Module
	if err := mc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Module not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// New lessons go to the end of the module.
	var lessonCount int64
	mc.DB.Model(&models.Lesson{}).Where("module_id = ?", moduleID).Count(&lessonCount)

	lesson := models.Lesson{
		ModuleID:       uint(moduleID),
		Title:          input.Title,
		Content:        input.Content,
		VideoURL:       input.VideoURL,
		MinTimeSeconds: input.MinTimeSeconds,
		Position:       int(lessonCount) + 1,
		IsActive:       true,
	}

	if err := mc.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}

	report, err := services.NotifyNewLesson(mc.DB, mc.Mailer, mc.Logger, module, lesson)
	if err != nil && mc.Logger != nil {
		mc.Logger.Printf("new-lesson fan-out failed for lesson %d: %v", lesson.ID, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Lesson added",
		"lesson":   lesson,
		"dispatch": report,
	})
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags modules
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/modules/{id}/lessons/{lessonId} [put]
func (mc *ModulesController) UpdateLesson(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Title          string `json:"title"`
		Content        string `json:"content"`
		VideoURL       string `json:"video_url"`
		Position       int    `json:"position"`
		MinTimeSeconds *int   `json:"min_time_seconds"`
		IsActive       *bool  `json:"is_active"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var lesson models.Lesson
	if err := mc.DB.Where("id = ? AND module_id = ?", lessonID, moduleID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.VideoURL != "" {
		lesson.VideoURL = input.VideoURL
	}
	if input.Position != 0 {
		lesson.Position = input.Position
	}
	if input.MinTimeSeconds != nil {
		lesson.MinTimeSeconds = *input.MinTimeSeconds
	}
	if input.IsActive != nil {
		lesson.IsActive = *input.IsActive
	}

	if err := mc.DB.Save(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not update lesson")
	}

	return c.JSON(fiber.Map{
		"message": "Lesson updated",
		"lesson":  lesson,
	})
}
