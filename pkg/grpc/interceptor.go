package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"energy-report-service/pkg/common"
)

// CreateRateLimitInterceptor limits the listed methods per calling peer.
func (s *EnergyServer) CreateRateLimitInterceptor(fullMethods []string) grpc.UnaryServerInterceptor {
	targetMethods := common.Reducer(fullMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if targetMethods[info.FullMethod] {
			if !s.CheckClientLimiter(peerKey(ctx)) {
				return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
			}
		}

		return handler(ctx, req)
	}
}

// peerKey is the caller's host without the port, or the raw address when it
// has none.
func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
