package main

import (
	"net/http"

	_ "giftledger/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"giftledger/internal/cache"
	"giftledger/internal/config"
	"giftledger/internal/db"
	"giftledger/internal/handler"
	"giftledger/internal/logging"
	"giftledger/internal/metrics"
	"giftledger/internal/model"
	"giftledger/internal/repository"
	"giftledger/internal/router"
	"giftledger/internal/service"
)

// @title Gifticon Ledger API
// @version 1.0
// @description Stored-value gift card ledger: issuance, redemption, recharge, suspension and audit trail.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Gifticon{},
		&model.UsageRecord{},
		&model.StatusChangeLog{},
		&model.RechargeRecord{},
	); err != nil {
		logger.Fatal().Err(err).Msg("auto-migrate")
	}

	metrics.Register()
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	gifticonRepo := repository.NewGifticonRepository(gormDB)
	auditRepo := repository.NewAuditRepository(gormDB)

	// Initialize services
	auditWriter := service.NewAuditWriter(auditRepo, logger)
	defer auditWriter.Close()

	gifticonService := service.NewGifticonService(
		gifticonRepo,
		auditRepo,
		auditWriter,
		cacheClient,
		logger,
		cfg.PublicOrigin,
	)

	// Initialize handlers
	gifticonHandler := handler.NewGifticonHandler(gifticonService)

	// Register routes
	router.Register(e, cfg, gifticonHandler)

	addr := ":" + cfg.ServerPort
	logger.Info().Str("addr", addr).Msg("gifticon ledger listening")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server start")
	}
}
