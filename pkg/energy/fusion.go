package energy

import (
	"context"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/models"
	"energy-report-service/pkg/timewindow"
)

// SlotDuration is the grid prices are quoted on and the report resolution.
const SlotDuration = 15 * time.Minute

// FusionRow is one 15-minute slot of the merged read model. Price is the
// wholesale value as stored; measurement fields are averages of the non-null
// telemetry samples falling into the slot.
type FusionRow struct {
	Timestamp time.Time
	Price     *float64

	ForecastTemperature   *float64
	ForecastHumidity      *float64
	ForecastWindSpeed     *float64
	ForecastWindDirection *float64
	ForecastPrecipitation *float64
	ForecastCloudCover    *float64
	ForecastRadiation     *float64

	Temperature           *float64
	DewPoint              *float64
	Humidity              *float64
	Pressure              *float64
	WindSpeed             *float64
	WindGust              *float64
	WindDirection         *float64
	PrecipitationRate     *float64
	EnergyTotal           *float64
	PVPower               *float64
	BatterySOC            *float64
	ActivePower           *float64
	BatteryChargePower    *float64
	BatteryDischargePower *float64

	Samples int
}

// measurementFields reads the linear-averaged telemetry fields in a fixed
// order shared with (*FusionRow).measurementTargets.
var measurementFields = []func(*models.Telemetry) *float64{
	func(t *models.Telemetry) *float64 { return t.Temperature },
	func(t *models.Telemetry) *float64 { return t.DewPoint },
	func(t *models.Telemetry) *float64 { return t.Humidity },
	func(t *models.Telemetry) *float64 { return t.Pressure },
	func(t *models.Telemetry) *float64 { return t.WindSpeed },
	func(t *models.Telemetry) *float64 { return t.WindGust },
	func(t *models.Telemetry) *float64 { return t.PrecipitationRate },
	func(t *models.Telemetry) *float64 { return t.EnergyTotal },
	func(t *models.Telemetry) *float64 { return t.PVPower },
	func(t *models.Telemetry) *float64 { return t.BatterySOC },
	func(t *models.Telemetry) *float64 { return t.ActivePower },
	func(t *models.Telemetry) *float64 { return t.BatteryChargePower },
	func(t *models.Telemetry) *float64 { return t.BatteryDischargePower },
}

func (r *FusionRow) measurementTargets() []**float64 {
	return []**float64{
		&r.Temperature,
		&r.DewPoint,
		&r.Humidity,
		&r.Pressure,
		&r.WindSpeed,
		&r.WindGust,
		&r.PrecipitationRate,
		&r.EnergyTotal,
		&r.PVPower,
		&r.BatterySOC,
		&r.ActivePower,
		&r.BatteryChargePower,
		&r.BatteryDischargePower,
	}
}

type slotAccumulator struct {
	sums   []float64
	counts []int

	// wind direction is averaged as a unit vector
	dirSin, dirCos float64
	dirCount       int

	samples int
}

func newSlotAccumulator() *slotAccumulator {
	return &slotAccumulator{
		sums:   make([]float64, len(measurementFields)),
		counts: make([]int, len(measurementFields)),
	}
}

func (a *slotAccumulator) add(t *models.Telemetry) {
	a.samples++
	for i, field := range measurementFields {
		if v := field(t); v != nil {
			a.sums[i] += *v
			a.counts[i]++
		}
	}
	if t.WindDirection != nil {
		rad := *t.WindDirection * math.Pi / 180
		a.dirSin += math.Sin(rad)
		a.dirCos += math.Cos(rad)
		a.dirCount++
	}
}

func (a *slotAccumulator) apply(row *FusionRow) {
	row.Samples = a.samples
	for i, target := range row.measurementTargets() {
		if a.counts[i] > 0 {
			*target = common.Ptr(a.sums[i] / float64(a.counts[i]))
		}
	}
	if a.dirCount > 0 {
		deg := math.Atan2(a.dirSin, a.dirCos) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		row.WindDirection = common.Ptr(deg)
	}
}

// getDayRows merges prices, forecasts and telemetry inside the half-open
// absolute interval of window, keyed by 15-minute slot and sorted ascending.
func (e *Energy) getDayRows(ctx context.Context, window timewindow.DayWindow) ([]FusionRow, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameEnergyCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryFusion),
	)

	start, end := window.StartAbsolute.UTC(), window.EndAbsolute.UTC()
	conn := e.Db.Conn.WithContext(ctx)

	var prices []models.Price
	if err := conn.Where("ts >= ? AND ts < ?", start, end).Order("ts").Find(&prices).Error; err != nil {
		logger.Error("Failed to query prices", zap.Error(err))
		return nil, db.ClassifyError(err)
	}

	var forecasts []models.Forecast
	if err := conn.Where("ts >= ? AND ts < ?", start, end).Order("ts").Find(&forecasts).Error; err != nil {
		logger.Error("Failed to query forecasts", zap.Error(err))
		return nil, db.ClassifyError(err)
	}

	var telemetry []models.Telemetry
	if err := conn.Where("ts >= ? AND ts < ?", start, end).Order("ts").Order("id").Find(&telemetry).Error; err != nil {
		logger.Error("Failed to query telemetry", zap.Error(err))
		return nil, db.ClassifyError(err)
	}

	rows := map[time.Time]*FusionRow{}
	slot := func(ts time.Time) *FusionRow {
		key := ts.UTC().Truncate(SlotDuration)
		row, ok := rows[key]
		if !ok {
			row = &FusionRow{Timestamp: key}
			rows[key] = row
		}
		return row
	}

	for _, p := range prices {
		slot(p.Timestamp).Price = p.Price
	}

	for _, f := range forecasts {
		row := slot(f.Timestamp)
		row.ForecastTemperature = f.Temperature
		row.ForecastHumidity = f.Humidity
		row.ForecastWindSpeed = f.WindSpeed
		row.ForecastWindDirection = f.WindDirection
		row.ForecastPrecipitation = f.Precipitation
		row.ForecastCloudCover = f.CloudCover
		row.ForecastRadiation = f.ShortwaveRadiation
	}

	accumulators := map[time.Time]*slotAccumulator{}
	for i := range telemetry {
		row := slot(telemetry[i].Timestamp)
		acc, ok := accumulators[row.Timestamp]
		if !ok {
			acc = newSlotAccumulator()
			accumulators[row.Timestamp] = acc
		}
		acc.add(&telemetry[i])
	}
	for key, acc := range accumulators {
		acc.apply(rows[key])
	}

	result := make([]FusionRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	slices.SortFunc(result, func(a, b FusionRow) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	logger.Debug("Fused day rows",
		zap.String("date", window.Date()),
		zap.Int("prices", len(prices)),
		zap.Int("forecasts", len(forecasts)),
		zap.Int("telemetry", len(telemetry)),
		zap.Int("rows", len(result)),
	)

	return result, nil
}

type IFusionImpl struct {
	energy *Energy
}

func (ifu *IFusionImpl) GetDayRows(ctx context.Context, window timewindow.DayWindow) ([]FusionRow, error) {
	return ifu.energy.getDayRows(ctx, window)
}

func (e *Energy) GetIFusion() IFusion {
	return &IFusionImpl{energy: e}
}
