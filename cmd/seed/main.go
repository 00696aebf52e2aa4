// Seed issues a handful of sample gifticons through the real service against
// a development database. Intended for local demos and manual QA.
package main

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"giftledger/internal/cache"
	"giftledger/internal/config"
	"giftledger/internal/db"
	"giftledger/internal/logging"
	"giftledger/internal/metrics"
	"giftledger/internal/model"
	"giftledger/internal/repository"
	"giftledger/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, "console")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}

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

	gifticonRepo := repository.NewGifticonRepository(gormDB)
	auditRepo := repository.NewAuditRepository(gormDB)

	auditWriter := service.NewAuditWriter(auditRepo, logger)
	defer auditWriter.Close()

	svc := service.NewGifticonService(gifticonRepo, auditRepo, auditWriter, cacheClient, logger, cfg.PublicOrigin)

	samples := []service.CreateInput{
		{Amount: 30000, PurchaserName: "김민수", PurchaserPhone: "010-1234-5678", Notes: "생일 선물", CreatedBy: "seed"},
		{Amount: 50000, PurchaserName: "이서연", PurchaserPhone: "010-9876-5432", CreatedBy: "seed"},
		{Amount: 10000, PurchaserName: "박지훈", PurchaserPhone: "010-5555-0147", Notes: "단골 감사 쿠폰", CreatedBy: "seed"},
	}

	ctx := context.Background()
	for _, in := range samples {
		view, err := svc.Create(ctx, in)
		if err != nil {
			logger.Error().Err(err).Str("purchaser", in.PurchaserName).Msg("seed create failed")
			continue
		}
		logger.Info().Str("gifticon_id", view.ID).Int64("amount", view.FaceValue).
			Str("lookup_url", view.LookupURL).Msg("seeded gifticon")
	}

	// Exercise the ledger so the demo data has history: one partial
	// redemption and one recharge on the first card.
	views, err := svc.List(ctx, repository.ListQuery{CreatedBy: "seed", Limit: 1})
	if err != nil || len(views) == 0 {
		return
	}
	id := views[0].ID
	if _, err := svc.Redeem(ctx, id, service.RedeemInput{Amount: 5000, UsedBy: "seed", Memo: "demo redemption"}); err != nil {
		logger.Error().Err(err).Msg("seed redeem failed")
	}
	if _, err := svc.Recharge(ctx, id, service.RechargeInput{Amount: 5000, RechargedBy: "seed", PaymentMethod: "card"}); err != nil {
		logger.Error().Err(err).Msg("seed recharge failed")
	}

	// Print a dev bearer token so the secured routes can be exercised
	// against the seeded data right away.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "seed",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		logger.Error().Err(err).Msg("dev token signing failed")
		return
	}
	logger.Info().Str("authorization", "Bearer "+signed).Msg("dev admin token")
}
