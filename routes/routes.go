package routes

import (
	"log"

	"trainhub/config"
	"trainhub/controllers"
	"trainhub/middleware"
	"trainhub/services"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer utils.Mailer, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	app.Get("/api/auth/profile", authMiddleware, authController.GetProfile)

	certificateManager := services.NewCertificateManager(db, cfg, services.HTMLRenderer{}, &utils.LocalFileStore{Root: cfg.StorageRoot})
	certificatesController := controllers.NewCertificatesController(db, cfg, certificateManager)
	app.Get("/api/certificates/:id/url", authMiddleware, certificatesController.CertificateURL)

	// Admin: modules and lessons
	modulesController := controllers.NewModulesController(db, cfg, mailer, logger)
	adminModules := app.Group("/api/admin/modules", authMiddleware, adminMiddleware)
	adminModules.Get("/", modulesController.ListModules)
	adminModules.Post("/", modulesController.CreateModule)
	adminModules.Get("/:id", modulesController.GetModuleDetails)
	adminModules.Put("/:id", modulesController.UpdateModule)
	adminModules.Post("/:id/lessons", modulesController.AddLesson)
	adminModules.Put("/:id/lessons/:lessonId", modulesController.UpdateLesson)

	// Admin: assignments
	assignmentsController := controllers.NewAssignmentsController(db, cfg)
	adminAssignments := app.Group("/api/admin/assignments", authMiddleware, adminMiddleware)
	adminAssignments.Post("/", assignmentsController.SendTraining)
	adminAssignments.Get("/", assignmentsController.ListAssignments)

	// Admin: completion overrides
	completionController := controllers.NewCompletionController(db, cfg)
	adminModules.Post("/:id/approve", completionController.ApproveModule)
	adminModules.Post("/:id/reset", completionController.ResetModule)
	adminLessons := app.Group("/api/admin/lessons", authMiddleware, adminMiddleware)
	adminLessons.Post("/:id/approve", completionController.ApproveLesson)
	adminLessons.Post("/:id/reset", completionController.ResetLesson)

	// Admin: progress views
	progressController := controllers.NewProgressController(db, cfg)
	adminModules.Get("/:id/progress", progressController.GetModuleProgress)
	app.Get("/api/admin/users/:id/progress", authMiddleware, adminMiddleware, progressController.GetUserProgress)

	// Admin: certificates
	adminCertificates := app.Group("/api/admin/certificates", authMiddleware, adminMiddleware)
	adminCertificates.Post("/", certificatesController.IssueCertificate)
	adminCertificates.Post("/regenerate", certificatesController.RegenerateCertificate)
	adminCertificates.Get("/history", certificatesController.CertificateHistory)

	// Admin: email settings
	settingsController := controllers.NewSettingsController(db, cfg)
	adminSettings := app.Group("/api/admin/settings", authMiddleware, adminMiddleware)
	adminSettings.Get("/email", settingsController.GetEmailSettings)
	adminSettings.Put("/email", settingsController.UpdateEmailSetting)
}
