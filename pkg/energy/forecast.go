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

const kindForecast = "forecast"

type ForecastInput struct {
	Timestamp     time.Time
	Temperature   *float64
	Humidity      *float64
	WindSpeed     *float64
	WindDirection *float64
	Precipitation *float64
	CloudCover    *float64

	ShortwaveRadiation *float64
}

// upsertForecasts stores forecast slots; a later forecast for the same slot
// replaces the earlier one.
func (e *Energy) upsertForecasts(ctx context.Context, inputs []ForecastInput) (IngestResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEnergyCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryForecast),
	)

	var result IngestResult
	for i, in := range inputs {
		row := models.Forecast{
			Timestamp:     in.Timestamp.UTC(),
			Temperature:   in.Temperature,
			Humidity:      in.Humidity,
			WindSpeed:     in.WindSpeed,
			WindDirection: in.WindDirection,
			Precipitation: in.Precipitation,
			CloudCover:    in.CloudCover,

			ShortwaveRadiation: in.ShortwaveRadiation,
		}

		err := e.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ts"}},
			DoUpdates: clause.AssignmentColumns(models.ForecastColumns),
		}).Create(&row).Error
		if err != nil {
			batchErr := &BatchError{Applied: result.Inserted, Index: i, Err: db.ClassifyError(err)}
			logger.Error("Forecast batch stopped", zap.Int("index", i), zap.Error(batchErr.Err))
			metrics.IncIngestBatch(kindForecast, metrics.ResultPartial)
			return result, batchErr
		}

		metrics.IncIngestRow(kindForecast, metrics.PathUpsert)
		result.Inserted++
	}

	metrics.IncIngestBatch(kindForecast, metrics.ResultSuccess)
	logger.Info("Upserted forecasts", zap.Int("upserted", result.Inserted))
	return result, nil
}

type IForecastImpl struct {
	energy *Energy
}

func (ifc *IForecastImpl) UpsertForecasts(ctx context.Context, inputs []ForecastInput) (IngestResult, error) {
	return ifc.energy.upsertForecasts(ctx, inputs)
}

func (e *Energy) GetIForecast() IForecast {
	return &IForecastImpl{energy: e}
}
