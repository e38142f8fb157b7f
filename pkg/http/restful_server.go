package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"energy-report-service/pkg/cache"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/inbox"
)

type RestfulServer struct {
	Server           *gin.Engine
	Energy           *energy.Energy
	Zone             *time.Location
	Cache            cache.ReportCache
	Inbox            *inbox.FileDrop
	RateLimiterStore *energy.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(clientKey string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	}
	return rs.RateLimiterStore.GetLimiter(clientKey)
}

func (rs *RestfulServer) CheckClientLimiter(clientKey string) bool {
	limiter := rs.GetLimiter(clientKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(clientKey string, clientRate float64, clientBurst int) bool {
	if rs.RateLimiterStore == nil {
		return false
	}
	rs.RateLimiterStore.SetLimiter(clientKey, rate.Limit(clientRate), clientBurst)
	return true
}

func (rs *RestfulServer) reportCache() cache.ReportCache {
	if rs.Cache == nil {
		return cache.NopCache{}
	}
	return rs.Cache
}

func (rs *RestfulServer) zone() *time.Location {
	if rs.Zone == nil {
		return time.UTC
	}
	return rs.Zone
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := rs.Server.Group("/", rs.RateLimit)
	{
		limited.POST("/telemetry", rs.PostTelemetry)
		limited.POST("/telemetry/upload", rs.UploadTelemetry)
		limited.POST("/prices", rs.PostPrices)
		limited.POST("/forecasts", rs.PostForecasts)
		limited.GET("/report", rs.GetReport)
	}

	rs.Server.POST("/limiters/:client_key", rs.PostLimiter)
}
