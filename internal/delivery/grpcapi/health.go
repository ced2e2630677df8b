package grpcapi

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CheckoutServiceName is the service name reported through the gRPC health protocol.
const CheckoutServiceName = "checkout.CheckoutService"

// Probe reports whether a backing dependency is usable.
type Probe func(ctx context.Context) error

type HealthHandler struct {
	server *health.Server
	probe  Probe
	logger logrus.FieldLogger
}

// NewHealthHandler registers the standard health service on s. A nil probe always reports SERVING.
func NewHealthHandler(s *grpc.Server, probe Probe, logger logrus.FieldLogger) *HealthHandler {
	h := &HealthHandler{
		server: health.NewServer(),
		probe:  probe,
		logger: logger,
	}
	healthpb.RegisterHealthServer(s, h.server)
	return h
}

// Refresh runs the probe once and publishes the result.
func (h *HealthHandler) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if h.probe != nil {
		if err := h.probe(ctx); err != nil {
			h.logger.WithError(err).Warn("health probe failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(CheckoutServiceName, status)
	return status
}

// Watch refreshes the status every interval until ctx is done.
func (h *HealthHandler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

// Shutdown flips every service to NOT_SERVING ahead of a graceful stop.
func (h *HealthHandler) Shutdown() {
	h.server.Shutdown()
}
