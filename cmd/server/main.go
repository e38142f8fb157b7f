package main

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"energy-report-service/pkg/cache"
	"energy-report-service/pkg/common"
	"energy-report-service/pkg/config"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	energyGrpc "energy-report-service/pkg/grpc"
	energyHttp "energy-report-service/pkg/http"
	"energy-report-service/pkg/inbox"
	"energy-report-service/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	common.ConfigureLogger(common.LoggerOptions{Dir: cfg.LogsDir})
	logger := common.GetLogger()

	dialector, err := db.DialectorFor(cfg)
	if err != nil {
		log.Fatal(err)
	}
	dbInstance, err := db.GetInstance(dialector)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := dbInstance.Conn.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	metrics.Init(sqlDB)

	energyCore := energy.Energy{
		Db: *dbInstance,
	}
	energyCore.WithDefaultServices()

	var reportCache cache.ReportCache = cache.NopCache{}
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		reportCache = cache.NewRedisReportCache(client, cfg.ReportCacheTTL)
		logger.Info("Report cache enabled", zap.String("redis_addr", cfg.RedisAddr), zap.Duration("ttl", cfg.ReportCacheTTL))
	}

	if cfg.InboxImportInterval > 0 {
		importer := inbox.NewImporter(cfg.InboxDir, energyCore.Import)
		go importer.Run(context.Background(), cfg.InboxImportInterval, func(summary inbox.ImportSummary) {
			reportCache.Invalidate(context.Background())
		})
		logger.Info("Inbox import enabled", zap.String("inbox_dir", cfg.InboxDir), zap.Duration("interval", cfg.InboxImportInterval))
	}

	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst))

	if cfg.GrpcHostPort != "" {
		go func() {
			energyGrpcServer := energyGrpc.EnergyServer{
				Energy:           &energyCore,
				Zone:             cfg.CivilZone,
				Cache:            reportCache,
				RateLimiterStore: energy.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst),
			}
			interceptor := energyGrpcServer.CreateRateLimitInterceptor([]string{
				energyGrpc.EnergyService_IngestTelemetry_FullMethodName,
				energyGrpc.EnergyService_GetDay_FullMethodName,
			})
			s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
			energyGrpc.RegisterEnergyServiceServer(s, &energyGrpcServer)
			logger.Info("gRPC server created with:", defaultLimiter)

			listener, err := net.Listen("tcp", cfg.GrpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			logger.Info("start gRPC server on " + cfg.GrpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	rs := &energyHttp.RestfulServer{
		Server:           gin.Default(),
		Energy:           &energyCore,
		Zone:             cfg.CivilZone,
		Cache:            reportCache,
		Inbox:            inbox.NewFileDrop(cfg.InboxDir),
		RateLimiterStore: energy.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst),
	}
	rs.Setup()

	logger.Info("http server created with:", defaultLimiter, zap.String("civil_timezone", cfg.CivilZone.String()))

	logger.Info("Starting HTTP server on: " + cfg.HTTPHostPort)
	if err := rs.Server.Run(cfg.HTTPHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
