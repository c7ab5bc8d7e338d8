// Package main is the entry point for the rewards ledger API.
package main

import (
	"refpay/internal/config"
	"refpay/internal/repositories"
	"refpay/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if config.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := repositories.InitDB(); err != nil {
		logrus.Fatalf("failed to initialize storage: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, X-Bot-Key",
		AllowMethods: "GET,POST",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app)

	addr := ":" + config.GetEnv("PORT", "3000")
	logrus.Infof("server listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
