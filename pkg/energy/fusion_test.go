package energy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/energy"
	_ "energy-report-service/pkg/testing"
	"energy-report-service/pkg/timewindow"
)

func TestGetDayRows_MergesBySlot(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, e, _ := GetMockEnergyWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	helsinki, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)
	window := timewindow.ForDate(2024, time.March, 16, helsinki)
	// 2024-03-15T22:00Z .. 2024-03-16T22:00Z
	start := window.StartAbsolute

	_, err = e.Price.InsertPrices(ctx, []energy.PriceInput{
		{Timestamp: start.Add(-15 * time.Minute), Price: common.Ptr(99.0)},
		{Timestamp: start, Price: common.Ptr(50.0)},
		{Timestamp: start.Add(15 * time.Minute), Price: nil},
		{Timestamp: window.EndAbsolute, Price: common.Ptr(99.0)},
	})
	require.NoError(t, err)

	_, err = e.Forecast.UpsertForecasts(ctx, []energy.ForecastInput{
		{Timestamp: start, Temperature: common.Ptr(-3.0)},
	})
	require.NoError(t, err)

	payload := `[
		{"ts":"2024-03-15T22:01:00Z","temperature_c":1,"wind_direction_deg":350,"pv_feed_in_w":null},
		{"ts":"2024-03-15T22:14:59Z","temperature_c":2,"wind_direction_deg":10},
		{"ts":"2024-03-15T23:00:00Z","battery_soc_pct":80},
		{"ts":"2024-03-16T22:00:00Z","temperature_c":100}
	]`
	_, err = e.Telemetry.IngestTelemetry(ctx, []byte(payload))
	require.NoError(t, err)

	rows, err := e.Fusion.GetDayRows(ctx, window)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.True(t, first.Timestamp.Equal(start))
	assert.Equal(t, 50.0, *first.Price)
	assert.Equal(t, -3.0, *first.ForecastTemperature)
	assert.Equal(t, 1.5, *first.Temperature)
	assert.InDelta(t, 0.0, angleDistance(*first.WindDirection, 0), 1e-6)
	assert.Nil(t, first.PVPower)
	assert.Equal(t, 2, first.Samples)

	second := rows[1]
	assert.True(t, second.Timestamp.Equal(start.Add(15*time.Minute)))
	assert.Nil(t, second.Price)
	assert.Zero(t, second.Samples)

	third := rows[2]
	assert.True(t, third.Timestamp.Equal(start.Add(time.Hour)))
	assert.Nil(t, third.Price)
	assert.Equal(t, 80.0, *third.BatterySOC)
	assert.Nil(t, third.Temperature)
}

func TestGetDayRows_EmptyDay(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, e, _ := GetMockEnergyWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	rows, err := e.Fusion.GetDayRows(context.Background(), timewindow.ForDate(2024, time.January, 1, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func angleDistance(a, b float64) float64 {
	d := a - b
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	if d < 0 {
		return -d
	}
	return d
}
