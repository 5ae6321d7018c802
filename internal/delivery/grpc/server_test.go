package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct {
	healthy atomic.Bool
}

func (f *fakePinger) Ping(context.Context) error {
	if f.healthy.Load() {
		return nil
	}
	return errors.New("connection refused")
}

func TestHealthFollowsDatabase(t *testing.T) {
	srv := NewGRPCServer(&cfg.GRPCConfig{HealthInterval: 10 * time.Millisecond}, logger.NewNopLogger())
	srv.RegisterServices()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.serve(lis) }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := healthpb.NewHealthClient(conn)

	db := &fakePinger{}
	db.healthy.Store(true)
	srv.WatchDB(context.Background(), db)

	statusOf := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	assert.Eventually(t, func() bool { return statusOf() == healthpb.HealthCheckResponse_SERVING }, time.Second, 10*time.Millisecond)

	db.healthy.Store(false)
	assert.Eventually(t, func() bool { return statusOf() == healthpb.HealthCheckResponse_NOT_SERVING }, time.Second, 10*time.Millisecond)
}
