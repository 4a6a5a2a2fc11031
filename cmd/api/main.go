package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"taskboard/interfaces/api/handlers"
	"taskboard/interfaces/api/middleware"
	"taskboard/interfaces/api/routes"
	websocketHandler "taskboard/interfaces/api/websocket"
	"taskboard/pkg/di"
	"taskboard/pkg/logger"
)

func main() {
	container := di.NewContainer()
	if err := container.Initialize(); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	setupGracefulShutdown(container)

	cfg := container.GetConfig()
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Storage.MaxUploadSize) + 1024*1024,
	})

	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware())

	h := handlers.NewHandlers(container.GetHandlerServices())
	routes.SetupRoutes(app, h)

	wsHandler := websocketHandler.NewWebSocketHandler(container.Hub, container.ProjectService, cfg.JWT.Secret)
	routes.SetupWebSocketRoutes(app, wsHandler)

	// Attachments uploaded to local storage are served straight from disk.
	if cfg.Storage.Type != "s3" {
		app.Static("/files", cfg.Storage.BasePath)
	}

	port := cfg.App.Port
	logger.Info("Server starting", "port", port, "env", cfg.App.Env, "app", cfg.App.Name)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
