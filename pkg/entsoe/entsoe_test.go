package entsoe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/models"
	"energy-report-service/pkg/timewindow"
)

const hourlyDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:3">
  <mRID>1</mRID>
  <TimeSeries>
    <mRID>1</mRID>
    <Period>
      <timeInterval>
        <start>2024-03-15T22:00Z</start>
        <end>2024-03-16T22:00Z</end>
      </timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><price.amount>50.5</price.amount></Point>
      <Point><position>2</position><price.amount>40</price.amount></Point>
      <Point><position>4</position><price.amount>-1.25</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

const acknowledgementDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:7:0">
  <mRID>x</mRID>
  <Reason>
    <code>999</code>
    <text>No matching data found for Data item Day-ahead Prices</text>
  </Reason>
</Acknowledgement_MarketDocument>`

func helsinkiDay(t *testing.T) timewindow.DayWindow {
	t.Helper()
	zone, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)
	return timewindow.ForDate(2024, time.March, 16, zone)
}

func TestParsePrices(t *testing.T) {
	points, err := ParsePrices([]byte(hourlyDocument))
	require.NoError(t, err)
	require.Len(t, points, 3)

	start := time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 50.5, points[start])
	assert.Equal(t, 40.0, points[start.Add(time.Hour)])
	assert.Equal(t, -1.25, points[start.Add(3*time.Hour)])
}

func TestParsePrices_Rejects(t *testing.T) {
	_, err := ParsePrices([]byte(acknowledgementDocument))
	require.ErrorIs(t, err, ErrNoPrices)
	assert.ErrorContains(t, err, "No matching data found")

	daily := `<Publication_MarketDocument><TimeSeries><Period>
		<timeInterval><start>2024-03-15T22:00Z</start></timeInterval>
		<resolution>P1D</resolution>
		<Point><position>1</position><price.amount>1</price.amount></Point>
	</Period></TimeSeries></Publication_MarketDocument>`
	_, err = ParsePrices([]byte(daily))
	assert.ErrorIs(t, err, ErrUnsupportedResolution)

	_, err = ParsePrices([]byte("not xml"))
	assert.Error(t, err)
}

func TestFillGrid_ForwardFillsOntoQuarterHours(t *testing.T) {
	window := helsinkiDay(t)
	points, err := ParsePrices([]byte(hourlyDocument))
	require.NoError(t, err)

	inputs, err := FillGrid(points, window.StartAbsolute, window.EndAbsolute)
	require.NoError(t, err)
	require.Len(t, inputs, 96)

	for i, in := range inputs {
		assert.True(t, in.Timestamp.Equal(window.StartAbsolute.Add(time.Duration(i)*Slot)), "slot %d", i)
		require.NotNil(t, in.Price, "slot %d", i)
	}
	assert.Equal(t, 50.5, *inputs[3].Price)
	assert.Equal(t, 40.0, *inputs[4].Price)
	assert.Equal(t, 40.0, *inputs[11].Price, "missing hour repeats the one before")
	assert.Equal(t, -1.25, *inputs[12].Price)
	assert.Equal(t, -1.25, *inputs[95].Price)
}

func TestFillGrid_SlotsBeforeFirstPointStayNull(t *testing.T) {
	window := helsinkiDay(t)
	points := map[time.Time]float64{
		window.StartAbsolute.Add(30 * time.Minute).In(time.FixedZone("EET", 2*3600)): 10,
	}

	inputs, err := FillGrid(points, window.StartAbsolute, window.EndAbsolute)
	require.NoError(t, err)
	assert.Nil(t, inputs[0].Price)
	assert.Nil(t, inputs[1].Price)
	require.NotNil(t, inputs[2].Price)
	assert.Equal(t, 10.0, *inputs[2].Price)

	_, err = FillGrid(nil, window.StartAbsolute, window.EndAbsolute)
	assert.ErrorIs(t, err, ErrNoPrices)
}

func TestClient_FetchDayAhead(t *testing.T) {
	window := helsinkiDay(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("securityToken"))
		assert.Equal(t, "A44", q.Get("documentType"))
		assert.Equal(t, DefaultDomain, q.Get("in_Domain"))
		assert.Equal(t, DefaultDomain, q.Get("out_Domain"))
		assert.Equal(t, "A01", q.Get("contract_MarketAgreement.type"))
		assert.Equal(t, "202403152200", q.Get("periodStart"))
		assert.Equal(t, "202403162200", q.Get("periodEnd"))

		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(hourlyDocument))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret")
	require.NoError(t, err)

	points, err := client.FetchDayAhead(context.Background(), Query{Window: window})
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestClient_ErrorStatusCarriesReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(acknowledgementDocument))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "secret")
	require.NoError(t, err)

	_, err = client.FetchDayAhead(context.Background(), Query{Window: helsinkiDay(t)})
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 400")
	assert.ErrorContains(t, err, "No matching data found")

	_, err = NewClient(server.URL, " ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

type staticFetcher map[time.Time]float64

func (f staticFetcher) FetchDayAhead(context.Context, Query) (map[time.Time]float64, error) {
	return f, nil
}

func TestImportDay_UpsertsWholeDay(t *testing.T) {
	common.SetTestLoggerNop()

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	e := (&energy.Energy{Db: *dbInstance}).WithDefaultServices()

	window := helsinkiDay(t)
	_, err = e.Price.InsertPrices(context.Background(), []energy.PriceInput{
		{Timestamp: window.StartAbsolute, Price: common.Ptr(999.0)},
	})
	require.NoError(t, err)

	points, err := ParsePrices([]byte(hourlyDocument))
	require.NoError(t, err)

	result, err := ImportDay(context.Background(), staticFetcher(points), e.Price, Query{Window: window})
	require.NoError(t, err)
	assert.Equal(t, 96, result.Inserted)

	var rows []models.Price
	require.NoError(t, e.Db.Conn.Order("ts").Find(&rows).Error)
	require.Len(t, rows, 96)
	assert.Equal(t, 50.5, *rows[0].Price, "republished slot is replaced")
	assert.Equal(t, -1.25, *rows[95].Price)
}

func TestImportDay_NothingPublished(t *testing.T) {
	common.SetTestLoggerNop()

	_, err := ImportDay(context.Background(), staticFetcher{}, nil, Query{Window: helsinkiDay(t)})
	assert.ErrorIs(t, err, ErrNoPrices)
}
