package energy

import (
	"context"
	"time"

	"energy-report-service/pkg/db"
	"energy-report-service/pkg/models"
	"energy-report-service/pkg/timewindow"
)

//go:generate mockgen -source=energy.go -destination=mocks/mock_energy.go -package=mocks

type ITelemetry interface {
	IngestTelemetry(ctx context.Context, payload []byte) (IngestResult, error)
}

// ITelemetryWriter is the per-row storage seam of telemetry ingest.
type ITelemetryWriter interface {
	UpsertTelemetry(ctx context.Context, row *models.Telemetry) error
	InsertTelemetry(ctx context.Context, row *models.Telemetry) error
}

// ITelemetryImport bulk-loads rows read from uploaded database files.
type ITelemetryImport interface {
	ImportTelemetry(ctx context.Context, inputs []TelemetryInput) (ImportResult, error)
}

type IPrice interface {
	InsertPrices(ctx context.Context, inputs []PriceInput) (IngestResult, error)
	UpsertPrices(ctx context.Context, inputs []PriceInput) (IngestResult, error)
}

type IForecast interface {
	UpsertForecasts(ctx context.Context, inputs []ForecastInput) (IngestResult, error)
}

type IFusion interface {
	GetDayRows(ctx context.Context, window timewindow.DayWindow) ([]FusionRow, error)
}

type Energy struct {
	Db        db.DB
	Clock     func() time.Time
	Telemetry ITelemetry
	Writer    ITelemetryWriter
	Import    ITelemetryImport
	Price     IPrice
	Forecast  IForecast
	Fusion    IFusion
}

type ServiceOpts struct {
	Telemetry ITelemetry
	Writer    ITelemetryWriter
	Import    ITelemetryImport
	Price     IPrice
	Forecast  IForecast
	Fusion    IFusion
}

func (e *Energy) WithServices(opts ServiceOpts) *Energy {
	if opts.Telemetry != nil {
		e.Telemetry = opts.Telemetry
	}
	if opts.Writer != nil {
		e.Writer = opts.Writer
	}
	if opts.Import != nil {
		e.Import = opts.Import
	}
	if opts.Price != nil {
		e.Price = opts.Price
	}
	if opts.Forecast != nil {
		e.Forecast = opts.Forecast
	}
	if opts.Fusion != nil {
		e.Fusion = opts.Fusion
	}
	return e
}

// WithDefaultServices wires every service to its storage-backed
// implementation.
func (e *Energy) WithDefaultServices() *Energy {
	return e.WithServices(ServiceOpts{
		Telemetry: e.GetITelemetry(),
		Writer:    e.GetITelemetryWriter(),
		Import:    e.GetITelemetryImport(),
		Price:     e.GetIPrice(),
		Forecast:  e.GetIForecast(),
		Fusion:    e.GetIFusion(),
	})
}

// Now is the service clock; tests pin it through Clock.
func (e *Energy) Now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}
