package main

import (
	"log"

	"trainhub/config"
	"trainhub/middleware"
	"trainhub/routes"
	"trainhub/services"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Background reconciliation keeps assignment completion flags in sync
	// with lesson-level progress written by the learner player.
	reconciler := services.StartReconciler(db, logger)
	defer reconciler.Stop()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	mailer := utils.NewSMTPMailer(cfg)
	routes.SetupRoutes(app, db, cfg, mailer, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
