package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"energy-report-service/pkg/cache"
	"energy-report-service/pkg/common"
	"energy-report-service/pkg/config"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/entsoe"
	"energy-report-service/pkg/timewindow"
)

// Imports one day of day-ahead prices, tomorrow unless -day is given. Meant to
// run from a scheduler once the auction results are out.
func main() {
	var (
		day       string
		outDomain string
		agreement string
		timeout   time.Duration
	)
	flag.StringVar(&day, "day", "", "civil date to import (YYYY-MM-DD), default tomorrow")
	flag.StringVar(&outDomain, "out-domain", "", "out_Domain EIC code, default same as ENERGY_ENTSOE_DOMAIN")
	flag.StringVar(&agreement, "agreement", entsoe.DefaultMarketAgreement, "contract_MarketAgreement.type")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall import timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	common.ConfigureLogger(common.LoggerOptions{Dir: cfg.LogsDir})
	logger := common.GetLoggerWith(common.LoggerNameEntsoe)

	window, err := timewindow.Resolve(day, timewindow.KeywordTomorrow, time.Now(), cfg.CivilZone)
	if err != nil {
		log.Fatal(err)
	}

	client, err := entsoe.NewClient(cfg.EntsoeURL, cfg.EntsoeToken)
	if err != nil {
		log.Fatal(err)
	}

	dialector, err := db.DialectorFor(cfg)
	if err != nil {
		log.Fatal(err)
	}
	dbInstance, err := db.GetInstance(dialector)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	energyCore := energy.Energy{Db: *dbInstance}
	energyCore.WithDefaultServices()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := entsoe.ImportDay(ctx, client, energyCore.Price, entsoe.Query{
		InDomain:        cfg.EntsoeDomain,
		OutDomain:       outDomain,
		MarketAgreement: agreement,
		Window:          window,
	})
	if err != nil {
		logger.Error("Price import failed", zap.String("date", window.Date()), zap.Error(err))
		log.Fatal(err)
	}

	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Could not reach report cache", zap.Error(err))
		} else {
			cache.NewRedisReportCache(redisClient, cfg.ReportCacheTTL).Invalidate(ctx)
			_ = redisClient.Close()
		}
	}

	logger.Info("Price import complete", zap.String("date", window.Date()), zap.Int("slots", result.Inserted))
}
