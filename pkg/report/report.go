// Package report turns fused day rows into a printable per-day table and
// renders it in several formats.
package report

import (
	"context"
	"time"

	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/pricing"
	"energy-report-service/pkg/timewindow"
)

const (
	// Placeholder is printed wherever a value is null.
	Placeholder = "-"

	NoDataMessage = "No data found for this day."

	TimeLayout = "15:04"

	// WholesaleKey is the export-only column carrying the raw day-ahead price.
	WholesaleKey      = "price_eur_per_mwh"
	WholesaleDecimals = 2
)

// Column describes one value column: its machine key, human title and the
// number of decimals it is printed with.
type Column struct {
	Key      string
	Title    string
	Decimals int

	value func(energy.FusionRow) *float64
}

var columns = []Column{
	{Key: "price_cent_per_kwh", Title: "Price (cent/kWh, incl. margin & VAT)", Decimals: pricing.RetailDecimals,
		value: func(r energy.FusionRow) *float64 { return pricing.ToRetail(r.Price) }},
	{Key: "fc_temperature_c", Title: "Forecast Temperature (°C)", Decimals: 1,
		value: func(r energy.FusionRow) *float64 { return r.ForecastTemperature }},
	{Key: "temperature_c", Title: "Measured Temperature (°C)", Decimals: 1,
		value: func(r energy.FusionRow) *float64 { return r.Temperature }},
	{Key: "fc_wind_speed_ms", Title: "Forecast Wind Speed (m/s)", Decimals: 1,
		value: func(r energy.FusionRow) *float64 { return r.ForecastWindSpeed }},
	{Key: "wind_speed_ms", Title: "Measured Wind Speed (m/s)", Decimals: 1,
		value: func(r energy.FusionRow) *float64 { return r.WindSpeed }},
	{Key: "fc_wind_direction_deg", Title: "Forecast Wind Direction (°)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.ForecastWindDirection }},
	{Key: "wind_direction_deg", Title: "Measured Wind Direction (°)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.WindDirection }},
	{Key: "fc_cloud_cover_pct", Title: "Forecast Cloud Cover (%)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.ForecastCloudCover }},
	{Key: "fc_radiation_kw_m2", Title: "Forecast Solar Radiation (kW/m²)", Decimals: 1,
		value: func(r energy.FusionRow) *float64 { return divide(r.ForecastRadiation, 1000) }},
	{Key: "humidity_pct", Title: "Measured Humidity (%)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.Humidity }},
	{Key: "precipitation_mmph", Title: "Measured Precipitation (mm/h)", Decimals: 1,
		value: func(r energy.FusionRow) *float64 { return r.PrecipitationRate }},
	{Key: "pv_power_w", Title: "PV Feed-in Power (W)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.PVPower }},
	{Key: "active_power_w", Title: "Active Power at PCC (W)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.ActivePower }},
	{Key: "battery_soc_pct", Title: "Battery SOC (%)", Decimals: 0,
		value: func(r energy.FusionRow) *float64 { return r.BatterySOC }},
}

// Columns returns the value columns in print order. The time column is not
// part of it.
func Columns() []Column {
	return append([]Column(nil), columns...)
}

// Row is one slot of the report. Values run parallel to Columns and hold
// display-unit values (retail price, kW/m²) before rounding. Wholesale is the
// raw EUR/MWh price, printed by the machine-readable exports only.
type Row struct {
	Timestamp time.Time
	Local     time.Time
	Wholesale *float64
	Values    []*float64
}

type Report struct {
	Date    string
	Zone    string
	Columns []Column
	Rows    []Row
}

// BuildRows converts fused rows into report rows for window. Rows keep the
// order they come in, which is ascending by timestamp.
func BuildRows(window timewindow.DayWindow, fused []energy.FusionRow) *Report {
	zone := window.StartLocal.Location()

	rep := &Report{
		Date:    window.Date(),
		Zone:    zone.String(),
		Columns: Columns(),
		Rows:    make([]Row, 0, len(fused)),
	}

	for _, f := range fused {
		row := Row{
			Timestamp: f.Timestamp.UTC(),
			Local:     f.Timestamp.In(zone),
			Wholesale: f.Price,
			Values:    make([]*float64, len(rep.Columns)),
		}
		for i, col := range rep.Columns {
			row.Values[i] = col.value(f)
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

// Build fetches the fused rows of window and converts them.
func Build(ctx context.Context, fusion energy.IFusion, window timewindow.DayWindow) (*Report, error) {
	fused, err := fusion.GetDayRows(ctx, window)
	if err != nil {
		return nil, err
	}
	return BuildRows(window, fused), nil
}

func (rep *Report) HasData() bool {
	return len(rep.Rows) > 0
}

// Cell is the printed text of column i in row.
func (rep *Report) Cell(row Row, i int) string {
	v := row.Values[i]
	if v == nil {
		return Placeholder
	}
	return pricing.Format(*v, rep.Columns[i].Decimals)
}

// WholesaleCell is the printed raw price of row.
func (rep *Report) WholesaleCell(row Row) string {
	if row.Wholesale == nil {
		return Placeholder
	}
	return pricing.Format(*row.Wholesale, WholesaleDecimals)
}

// Cells is every printed value of row in column order.
func (rep *Report) Cells(row Row) []string {
	cells := make([]string, len(rep.Columns))
	for i := range rep.Columns {
		cells[i] = rep.Cell(row, i)
	}
	return cells
}

// Rounded is the numeric value of column i in row at its print precision, or
// nil.
func (rep *Report) Rounded(row Row, i int) *float64 {
	v := row.Values[i]
	if v == nil {
		return nil
	}
	rounded := pricing.Round(*v, rep.Columns[i].Decimals)
	return &rounded
}

func divide(v *float64, by float64) *float64 {
	if v == nil {
		return nil
	}
	q := *v / by
	return &q
}
