package grpc

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/energy/mocks"
	_ "energy-report-service/pkg/testing"
)

const bufSize = 1024 * 1024

// 2024-03-16 12:00 in Helsinki
var fixedNow = time.Date(2024, time.March, 16, 10, 0, 0, 0, time.UTC)

func startTestServer(t *testing.T, limiter *energy.RateLimiterStore) (EnergyServiceClient, *EnergyServer) {
	listener := bufconn.Listen(bufSize)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)

	zone, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	energyObj := &energy.Energy{
		Db:    *dbInstance,
		Clock: func() time.Time { return fixedNow },
	}
	energyObj.WithDefaultServices()

	energyServer := &EnergyServer{Energy: energyObj, Zone: zone, RateLimiterStore: limiter}
	interceptor := grpc.UnaryInterceptor(energyServer.CreateRateLimitInterceptor([]string{
		EnergyService_IngestTelemetry_FullMethodName,
		EnergyService_GetDay_FullMethodName,
	}))
	server := grpc.NewServer(interceptor)
	RegisterEnergyServiceServer(server, energyServer)

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return listener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewEnergyServiceClient(conn), energyServer
}

func mustValue(t *testing.T, v any) *structpb.Value {
	t.Helper()
	value, err := structpb.NewValue(v)
	require.NoError(t, err)
	return value
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestIngestTelemetryAndGetDay(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, nil)

	resp, err := client.IngestTelemetry(context.Background(), mustValue(t, []any{
		map[string]any{"ts": "2024-03-15T22:05:00Z", "temperature_c": -4.25, "battery_soc_pct": 77.5},
		42.0,
		map[string]any{"id": 9.0, "ts": "2024-03-15T22:20:00Z", "temperature_c": -4.0},
	}))
	require.NoError(t, err)
	assert.Equal(t, 2.0, resp.GetFields()["inserted"].GetNumberValue())
	skipped := resp.GetFields()["skipped"].GetListValue().GetValues()
	require.Len(t, skipped, 1)
	assert.Equal(t, 1.0, skipped[0].GetNumberValue())

	day, err := client.GetDay(context.Background(), mustStruct(t, map[string]any{"day": "2024-03-16"}))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", day.GetFields()["date"].GetStringValue())
	assert.Equal(t, "Europe/Helsinki", day.GetFields()["zone"].GetStringValue())

	rows := day.GetFields()["rows"].GetListValue().GetValues()
	require.Len(t, rows, 2)
	first := rows[0].GetStructValue().GetFields()
	assert.Equal(t, "00:00", first["time"].GetStringValue())
	assert.Equal(t, "-4.3", first["temperature_c"].GetStringValue())
	assert.Equal(t, "78", first["battery_soc_pct"].GetStringValue())
	assert.Equal(t, "-", first["price_cent_per_kwh"].GetStringValue())
}

func TestGetDay_NoData(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, nil)

	day, err := client.GetDay(context.Background(), mustStruct(t, map[string]any{"date": "tomorrow"}))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-17", day.GetFields()["date"].GetStringValue())
	assert.Empty(t, day.GetFields()["rows"].GetListValue().GetValues())
	assert.Equal(t, "No data found for this day.", day.GetFields()["message"].GetStringValue())
}

func TestErrorCodes(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, nil)

	_, err := client.GetDay(context.Background(), mustStruct(t, map[string]any{"day": "16.03.2024"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.IngestTelemetry(context.Background(), mustValue(t, map[string]any{"temperature_c": 1.0}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestErrorCodes_StorageUnavailable(t *testing.T) {
	common.SetTestLoggerNop()
	client, server := startTestServer(t, nil)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockTelemetry := mocks.NewMockITelemetry(ctrl)
	mockFusion := mocks.NewMockIFusion(ctrl)
	server.Energy.WithServices(energy.ServiceOpts{Telemetry: mockTelemetry, Fusion: mockFusion})

	mockTelemetry.EXPECT().
		IngestTelemetry(gomock.Any(), gomock.Any()).
		Return(
			energy.IngestResult{Inserted: 3, Skipped: []int{1}},
			&energy.BatchError{Applied: 3, Index: 4, Err: fmt.Errorf("%w: locked", db.ErrStorageUnavailable)},
		).
		Times(1)
	mockFusion.EXPECT().
		GetDayRows(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: timeout", db.ErrStorageUnavailable)).
		Times(1)

	_, err := client.IngestTelemetry(context.Background(), mustValue(t, []any{}))
	st := status.Convert(err)
	assert.Equal(t, codes.Unavailable, st.Code())

	details := st.Details()
	require.Len(t, details, 1)
	progress, ok := details[0].(*structpb.Struct)
	require.True(t, ok, "detail is %T", details[0])
	assert.Equal(t, 4.0, progress.GetFields()["index"].GetNumberValue())
	assert.Equal(t, 3.0, progress.GetFields()["inserted"].GetNumberValue())
	skipped := progress.GetFields()["skipped"].GetListValue().GetValues()
	require.Len(t, skipped, 1)
	assert.Equal(t, 1.0, skipped[0].GetNumberValue())

	_, err = client.GetDay(context.Background(), mustStruct(t, map[string]any{}))
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Empty(t, status.Convert(err).Details(), "only batch failures carry progress")
}

func TestRateLimitInterceptor(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, energy.NewRateLimiterStore(rate.Limit(0), 1))

	_, err := client.GetDay(context.Background(), mustStruct(t, map[string]any{}))
	require.NoError(t, err)

	_, err = client.GetDay(context.Background(), mustStruct(t, map[string]any{}))
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	// SetLimiter is not rate limited; bufconn peers all share one address
	_, err = client.SetLimiter(context.Background(), mustStruct(t, map[string]any{
		"client_key": "bufconn",
		"rate":       100.0,
		"burst":      10.0,
	}))
	require.NoError(t, err)

	_, err = client.GetDay(context.Background(), mustStruct(t, map[string]any{}))
	assert.NoError(t, err)
}

func TestSetLimiter_Validation(t *testing.T) {
	common.SetTestLoggerNop()

	client, _ := startTestServer(t, nil)
	_, err := client.SetLimiter(context.Background(), mustStruct(t, map[string]any{
		"client_key": "10.0.0.1",
		"rate":       1.0,
		"burst":      1.0,
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	client, _ = startTestServer(t, energy.NewRateLimiterStore(rate.Limit(1), 1))
	for _, req := range []map[string]any{
		{"rate": 1.0, "burst": 1.0},
		{"client_key": "10.0.0.1", "burst": 1.0},
		{"client_key": "10.0.0.1", "rate": 1.0, "burst": 0.0},
	} {
		_, err := client.SetLimiter(context.Background(), mustStruct(t, req))
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "request %v", req)
	}
}
