package grpc

import (
	"bytes"
	"context"
	"errors"
	"time"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/metrics"
	"energy-report-service/pkg/report"
	"energy-report-service/pkg/timewindow"
)

// statusFor maps err to a gRPC status. Batch failures carry how far the batch
// got as a Struct detail {index, inserted, skipped}.
func statusFor(err error, result *energy.IngestResult) error {
	code := codes.Internal
	switch {
	case errors.Is(err, timewindow.ErrInvalidDateFormat),
		errors.Is(err, energy.ErrInvalidPayload):
		code = codes.InvalidArgument
	case errors.Is(err, db.ErrConstraintViolation):
		code = codes.FailedPrecondition
	case errors.Is(err, db.ErrStorageUnavailable):
		code = codes.Unavailable
	}
	st := status.New(code, err.Error())

	var batchErr *energy.BatchError
	if !errors.As(err, &batchErr) {
		return st.Err()
	}

	fields := map[string]any{
		"index":    batchErr.Index,
		"inserted": batchErr.Applied,
	}
	if result != nil && len(result.Skipped) > 0 {
		fields["skipped"] = common.Mapper(result.Skipped, func(i int) any { return i })
	}
	details, err := structpb.NewStruct(fields)
	if err != nil {
		return st.Err()
	}
	if withDetails, err := st.WithDetails(details); err == nil {
		st = withDetails
	}
	return st.Err()
}

func ingestResponse(result energy.IngestResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"inserted": result.Inserted,
		"skipped": common.Mapper(result.Skipped, func(i int) any {
			return i
		}),
	})
}

// IngestTelemetry takes the same JSON array the HTTP endpoint does, carried as
// a google.protobuf.Value list.
func (s *EnergyServer) IngestTelemetry(ctx context.Context, req *structpb.Value) (*structpb.Struct, error) {
	payload, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	result, err := s.Energy.Telemetry.IngestTelemetry(ctx, payload)
	if result.Inserted > 0 {
		s.reportCache().Invalidate(ctx)
	}
	if err != nil {
		return nil, statusFor(err, &result)
	}

	return ingestResponse(result)
}

// GetDay returns the day report in its JSON export shape. Fields "day"
// (YYYY-MM-DD) and "date" (today|tomorrow) select the day like the HTTP
// query does.
func (s *EnergyServer) GetDay(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameGrpcServer,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReport),
	)

	fields := req.GetFields()
	window, err := timewindow.Resolve(
		fields["day"].GetStringValue(),
		fields["date"].GetStringValue(),
		s.Energy.Now(),
		s.zone(),
	)
	if err != nil {
		return nil, statusFor(err, nil)
	}

	renderer, err := report.Lookup(report.FormatJSON)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	started := time.Now()
	body, ticket, hit := s.reportCache().Get(ctx, report.FormatJSON, window)
	if !hit {
		rep, err := report.Build(ctx, s.Energy.Fusion, window)
		if err != nil {
			logger.Error("Failed to load report rows", zap.String("date", window.Date()), zap.Error(err))
			metrics.ObserveReport(report.FormatJSON, metrics.ResultError, time.Since(started))
			return nil, statusFor(err, nil)
		}

		var buf bytes.Buffer
		if err := renderer.Render(&buf, rep); err != nil {
			logger.Error("Failed to render report", zap.Error(err))
			metrics.ObserveReport(report.FormatJSON, metrics.ResultError, time.Since(started))
			return nil, status.Error(codes.Internal, "failed to render report")
		}
		body = buf.Bytes()
		s.reportCache().Put(ctx, ticket, report.FormatJSON, window, body)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(body, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	metrics.ObserveReport(report.FormatJSON, metrics.ResultSuccess, time.Since(started))
	return out, nil
}

type limiterRequest struct {
	ClientKey string
	Rate      float64
	Burst     int
}

var limiterRequestSchema = z.Struct(z.Shape{
	"ClientKey": z.String().Min(1).Required(),
	"Rate":      z.Float64().GT(0).Required(),
	"Burst":     z.Int().GT(0).Required(),
})

func (s *EnergyServer) SetLimiter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	limiterReq := limiterRequest{
		ClientKey: fields["client_key"].GetStringValue(),
		Rate:      fields["rate"].GetNumberValue(),
		Burst:     int(fields["burst"].GetNumberValue()),
	}
	if issues := limiterRequestSchema.Validate(&limiterReq); issues != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", issues)
	}

	if s.RateLimiterStore == nil {
		return nil, status.Error(codes.FailedPrecondition, "rate limiting is disabled")
	}

	s.RateLimiterStore.SetLimiter(limiterReq.ClientKey, rate.Limit(limiterReq.Rate), limiterReq.Burst)
	return structpb.NewStruct(map[string]any{"status": "OK"})
}
