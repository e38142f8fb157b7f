package energy

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/metrics"
	"energy-report-service/pkg/models"
)

const (
	kindTelemetryImport = "telemetry_import"

	importBatchSize = 500
)

// ImportResult counts the entries of one bulk import. Duplicates are entries
// whose timestamp was already stored or appeared earlier in the same import.
// Skipped entries had no timestamp or an undecodable vendor blob.
type ImportResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// importTelemetry appends entries whose timestamp is not stored yet. Ids are
// always assigned by the store. The whole import is one transaction: it lands
// completely or not at all.
func (e *Energy) importTelemetry(ctx context.Context, inputs []TelemetryInput) (ImportResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEnergyCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTelemetry),
	)

	var result ImportResult
	rows := make([]models.Telemetry, 0, len(inputs))
	for i, in := range inputs {
		if !in.Timestamp.Valid {
			result.Skipped++
			logger.Debug("Skipped import entry without timestamp", zap.Int("index", i))
			continue
		}
		row, err := in.toModel(time.Time{})
		if err != nil {
			result.Skipped++
			logger.Warn("Skipped import entry with bad attributes", zap.Int("index", i), zap.Error(err))
			continue
		}
		row.ID = 0
		rows = append(rows, row)
	}

	metrics.AddIngestRows(kindTelemetryImport, metrics.PathSkipped, result.Skipped)
	if len(rows) == 0 {
		return result, nil
	}

	lo, hi := rows[0].Timestamp.UTC(), rows[0].Timestamp.UTC()
	for _, row := range rows[1:] {
		ts := row.Timestamp.UTC()
		if ts.Before(lo) {
			lo = ts
		}
		if ts.After(hi) {
			hi = ts
		}
	}

	err := e.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored []time.Time
		if err := tx.Model(&models.Telemetry{}).
			Where("ts >= ? AND ts <= ?", lo, hi).
			Pluck("ts", &stored).Error; err != nil {
			return err
		}

		seen := make(map[int64]struct{}, len(stored)+len(rows))
		for _, ts := range stored {
			seen[ts.UTC().UnixMicro()] = struct{}{}
		}

		fresh := make([]models.Telemetry, 0, len(rows))
		for _, row := range rows {
			key := row.Timestamp.UTC().UnixMicro()
			if _, dup := seen[key]; dup {
				result.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			fresh = append(fresh, row)
		}

		if len(fresh) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(fresh, importBatchSize).Error; err != nil {
			return err
		}
		result.Inserted = len(fresh)
		return nil
	})
	if err != nil {
		err = db.ClassifyError(err)
		logger.Error("Telemetry import failed", zap.Int("rows", len(rows)), zap.Error(err))
		metrics.IncIngestBatch(kindTelemetryImport, metrics.ResultError)
		return ImportResult{Skipped: result.Skipped}, err
	}

	metrics.AddIngestRows(kindTelemetryImport, metrics.PathInsert, result.Inserted)
	metrics.AddIngestRows(kindTelemetryImport, metrics.PathSkipped, result.Duplicates)
	metrics.IncIngestBatch(kindTelemetryImport, metrics.ResultSuccess)

	logger.Info("Imported telemetry",
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

type ITelemetryImportImpl struct {
	energy *Energy
}

func (ii *ITelemetryImportImpl) ImportTelemetry(ctx context.Context, inputs []TelemetryInput) (ImportResult, error) {
	return ii.energy.importTelemetry(ctx, inputs)
}

func (e *Energy) GetITelemetryImport() ITelemetryImport {
	return &ITelemetryImportImpl{energy: e}
}
