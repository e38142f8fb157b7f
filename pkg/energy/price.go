package energy

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/metrics"
	"energy-report-service/pkg/models"
)

const kindPrice = "price"

// PriceInput is one wholesale quotation in EUR/MWh. A nil Price is stored as
// NULL.
type PriceInput struct {
	Timestamp time.Time
	Price     *float64
}

// insertPrices writes quotations one by one without overwriting. A duplicate
// or off-grid timestamp is rejected by the store and stops the batch.
func (e *Energy) insertPrices(ctx context.Context, inputs []PriceInput) (IngestResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEnergyCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryPrice),
	)

	logger.Info("Received price batch", zap.Int("entries", len(inputs)))

	var result IngestResult
	for i, in := range inputs {
		row := models.Price{
			Timestamp: in.Timestamp.UTC(),
			Price:     in.Price,
		}

		if err := e.Db.Conn.WithContext(ctx).Create(&row).Error; err != nil {
			batchErr := &BatchError{Applied: result.Inserted, Index: i, Err: db.ClassifyError(err)}
			logger.Error("Price batch stopped",
				zap.Int("index", i),
				zap.Time("ts", row.Timestamp),
				zap.Error(batchErr.Err),
			)
			metrics.IncIngestBatch(kindPrice, metrics.ResultPartial)
			return result, batchErr
		}

		metrics.IncIngestRow(kindPrice, metrics.PathInsert)
		result.Inserted++
	}

	metrics.IncIngestBatch(kindPrice, metrics.ResultSuccess)
	logger.Info("Inserted prices", zap.Int("inserted", result.Inserted))
	return result, nil
}

// upsertPrices writes quotations one by one, replacing the price of a slot
// that is already stored. Used by the day-ahead import, which republishes
// whole days. An off-grid timestamp still stops the batch.
func (e *Energy) upsertPrices(ctx context.Context, inputs []PriceInput) (IngestResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEnergyCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryPrice),
	)

	var result IngestResult
	now := e.Now().UTC()
	for i, in := range inputs {
		row := models.Price{
			Timestamp: in.Timestamp.UTC(),
			Price:     in.Price,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := e.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ts"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			batchErr := &BatchError{Applied: result.Inserted, Index: i, Err: db.ClassifyError(err)}
			logger.Error("Price upsert stopped",
				zap.Int("index", i),
				zap.Time("ts", row.Timestamp),
				zap.Error(batchErr.Err),
			)
			metrics.IncIngestBatch(kindPrice, metrics.ResultPartial)
			return result, batchErr
		}

		metrics.IncIngestRow(kindPrice, metrics.PathUpsert)
		result.Inserted++
	}

	metrics.IncIngestBatch(kindPrice, metrics.ResultSuccess)
	logger.Info("Upserted prices", zap.Int("upserted", result.Inserted))
	return result, nil
}

type IPriceImpl struct {
	energy *Energy
}

func (ip *IPriceImpl) InsertPrices(ctx context.Context, inputs []PriceInput) (IngestResult, error) {
	return ip.energy.insertPrices(ctx, inputs)
}

func (ip *IPriceImpl) UpsertPrices(ctx context.Context, inputs []PriceInput) (IngestResult, error) {
	return ip.energy.upsertPrices(ctx, inputs)
}

func (e *Energy) GetIPrice() IPrice {
	return &IPriceImpl{energy: e}
}
