package grpc

import (
	"time"

	"golang.org/x/time/rate"

	"energy-report-service/pkg/cache"
	"energy-report-service/pkg/energy"
)

type EnergyServer struct {
	Energy           *energy.Energy
	Zone             *time.Location
	Cache            cache.ReportCache
	RateLimiterStore *energy.RateLimiterStore
	UnimplementedEnergyServiceServer
}

func (s *EnergyServer) GetLimiter(clientKey string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	}
	return s.RateLimiterStore.GetLimiter(clientKey)
}

func (s *EnergyServer) CheckClientLimiter(clientKey string) bool {
	limiter := s.GetLimiter(clientKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (s *EnergyServer) zone() *time.Location {
	if s.Zone == nil {
		return time.UTC
	}
	return s.Zone
}

func (s *EnergyServer) reportCache() cache.ReportCache {
	if s.Cache == nil {
		return cache.NopCache{}
	}
	return s.Cache
}
