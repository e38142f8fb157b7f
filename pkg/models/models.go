package models

import (
	"time"

	"gorm.io/datatypes"
)

// Telemetry is one observation snapshot. Every measurement is nullable and a
// nil pointer is stored as NULL.
type Telemetry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"column:ts;not null;index"`

	Temperature           *float64
	DewPoint              *float64
	Humidity              *float64
	Pressure              *float64
	WindSpeed             *float64
	WindGust              *float64
	WindDirection         *float64
	PrecipitationRate     *float64
	EnergyTotal           *float64
	PVPower               *float64 `gorm:"column:pv_power"`
	BatterySOC            *float64 `gorm:"column:battery_soc"`
	ActivePower           *float64
	BatteryChargePower    *float64
	BatteryDischargePower *float64

	Attributes datatypes.JSON

	MergedAt *time.Time
	PushedAt *time.Time
}

func (Telemetry) TableName() string { return "telemetry" }

// TelemetryColumns lists every column an identifier-bearing upsert overwrites.
var TelemetryColumns = []string{
	"ts",
	"temperature",
	"dew_point",
	"humidity",
	"pressure",
	"wind_speed",
	"wind_gust",
	"wind_direction",
	"precipitation_rate",
	"energy_total",
	"pv_power",
	"battery_soc",
	"active_power",
	"battery_charge_power",
	"battery_discharge_power",
	"attributes",
	"merged_at",
	"pushed_at",
}

// Price is one day-ahead quotation in EUR/MWh. Timestamp sits on the
// 15-minute grid; the store rejects anything else.
type Price struct {
	Timestamp time.Time `gorm:"column:ts;primaryKey;autoIncrement:false"`
	Price     *float64
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Price) TableName() string { return "prices" }

// Forecast is one weather-forecast slot, revised in place by later forecasts.
type Forecast struct {
	Timestamp     time.Time `gorm:"column:ts;primaryKey;autoIncrement:false"`
	Temperature   *float64
	Humidity      *float64
	WindSpeed     *float64
	WindDirection *float64
	Precipitation *float64
	CloudCover    *float64

	// W/m²
	ShortwaveRadiation *float64

	UpdatedAt time.Time `gorm:"not null"`
}

func (Forecast) TableName() string { return "forecasts" }

// ForecastColumns lists the columns a forecast revision overwrites.
var ForecastColumns = []string{
	"temperature",
	"humidity",
	"wind_speed",
	"wind_direction",
	"precipitation",
	"cloud_cover",
	"shortwave_radiation",
	"updated_at",
}
