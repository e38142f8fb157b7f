package energy

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/metrics"
	"energy-report-service/pkg/models"
)

const kindTelemetry = "telemetry"

// ingestTelemetry applies a JSON array of telemetry entries one row at a time.
// Entries carrying an id are upserted (full overwrite on conflict), the rest
// are appended. The first failing write stops the batch; earlier rows stay.
func (e *Energy) ingestTelemetry(ctx context.Context, payload []byte) (IngestResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEnergyCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTelemetry),
	)

	var result IngestResult

	entries, err := decodeBatch(payload)
	if err != nil {
		logger.Warn("Rejected telemetry payload", zap.Error(err))
		metrics.IncIngestBatch(kindTelemetry, metrics.ResultError)
		return result, err
	}

	if e.Writer == nil {
		return result, errWriterNotAvailable
	}

	logger.Info("Received telemetry batch", zap.Int("entries", len(entries)))

	now := e.Now().UTC()
	for i, raw := range entries {
		input, err := decodeTelemetryEntry(raw)
		if err != nil {
			result.Skipped = append(result.Skipped, i)
			metrics.IncIngestRow(kindTelemetry, metrics.PathSkipped)
			if errors.Is(err, errNotRecord) {
				logger.Debug("Skipped non-record entry", zap.Int("index", i))
			} else {
				logger.Warn("Skipped undecodable entry", zap.Int("index", i), zap.Error(err))
			}
			continue
		}

		row, err := input.toModel(now)
		if err != nil {
			result.Skipped = append(result.Skipped, i)
			metrics.IncIngestRow(kindTelemetry, metrics.PathSkipped)
			logger.Warn("Skipped entry with bad attributes", zap.Int("index", i), zap.Error(err))
			continue
		}

		path := metrics.PathInsert
		if _, ok := input.ID.Value(); ok {
			path = metrics.PathUpsert
			err = e.Writer.UpsertTelemetry(ctx, &row)
		} else {
			err = e.Writer.InsertTelemetry(ctx, &row)
		}

		if err != nil {
			batchErr := &BatchError{Applied: result.Inserted, Index: i, Err: db.ClassifyError(err)}
			logger.Error("Telemetry batch stopped", zap.Int("index", i), zap.Int("applied", result.Inserted), zap.Error(batchErr.Err))
			metrics.IncIngestBatch(kindTelemetry, metrics.ResultPartial)
			return result, batchErr
		}

		metrics.IncIngestRow(kindTelemetry, path)
		result.Inserted++
	}

	logger.Info("Applied telemetry batch",
		zap.Int("inserted", result.Inserted),
		zap.Ints("skipped", result.Skipped),
	)
	metrics.IncIngestBatch(kindTelemetry, metrics.ResultSuccess)

	return result, nil
}

func (e *Energy) upsertTelemetry(ctx context.Context, row *models.Telemetry) error {
	return e.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(models.TelemetryColumns),
	}).Create(row).Error
}

func (e *Energy) insertTelemetry(ctx context.Context, row *models.Telemetry) error {
	row.ID = 0
	return e.Db.Conn.WithContext(ctx).Create(row).Error
}

type ITelemetryImpl struct {
	energy *Energy
}

func (it *ITelemetryImpl) IngestTelemetry(ctx context.Context, payload []byte) (IngestResult, error) {
	return it.energy.ingestTelemetry(ctx, payload)
}

func (e *Energy) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{energy: e}
}

type ITelemetryWriterImpl struct {
	energy *Energy
}

func (iw *ITelemetryWriterImpl) UpsertTelemetry(ctx context.Context, row *models.Telemetry) error {
	return iw.energy.upsertTelemetry(ctx, row)
}

func (iw *ITelemetryWriterImpl) InsertTelemetry(ctx context.Context, row *models.Telemetry) error {
	return iw.energy.insertTelemetry(ctx, row)
}

func (e *Energy) GetITelemetryWriter() ITelemetryWriter {
	return &ITelemetryWriterImpl{energy: e}
}
