package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/stellarhive/account-service/config"
	"github.com/stellarhive/account-service/db"
	"github.com/stellarhive/account-service/internal/account/handler"
	repo "github.com/stellarhive/account-service/internal/account/repository/postgres"
	"github.com/stellarhive/account-service/internal/account/service"
	"github.com/stellarhive/account-service/internal/mailer"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Env)

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	userRepo := repo.NewUserRepository(dbPool)
	tokenService := service.NewTokenService(cfg.SecretKey, cfg.AccessExpiryMin, cfg.RefreshExpiryMin, cfg.EmailExpiryHours)

	var m mailer.Mailer
	if cfg.EmailsEnabled() {
		m, err = mailer.NewSMTPMailer(cfg, logger)
		if err != nil {
			logger.Error("failed to configure SMTP mailer", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no email configuration provided, outbound email disabled")
		m = mailer.NewLogMailer(logger)
	}

	userService := service.NewUserService(userRepo, tokenService, m, logger)
	appHandler := handler.NewAppHandler(userService)
	authHandler := handler.NewAuthHandler(userService, tokenService.RefreshTokenTTL())
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{AppName: cfg.ProjectName})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllCORSOrigins(), ","),
		AllowCredentials: true,
	}))

	handler.RegisterRoutes(app, appHandler, authHandler, userHandler)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
