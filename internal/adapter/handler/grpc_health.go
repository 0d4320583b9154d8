package handler

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the store's health is reported under.
const ServiceName = "cims.Inventory"

type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewGRPCServer returns a gRPC server exposing the standard health service.
// The inventory service reports SERVING while the store answers pings.
func NewGRPCServer() (*grpc.Server, *health.Server) {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return server, healthServer
}

// WatchStore updates the health status from store pings until ctx ends.
func WatchStore(ctx context.Context, hs *health.Server, store Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ReportStore(ctx, hs, store)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ReportStore pings the store once and records the result.
func ReportStore(ctx context.Context, hs *health.Server, store Pinger) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := store.PingContext(pingCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus(ServiceName, status)
}
