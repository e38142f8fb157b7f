package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/metrics"
	"energy-report-service/pkg/report"
	"energy-report-service/pkg/timewindow"
)

const (
	maxPayloadBytes = 32 << 20
	uploadField     = "sqlite"
)

func (rs *RestfulServer) RateLimit(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}
	c.Next()
}

// PostTelemetry takes a JSON array of telemetry records. A multipart body is
// treated as a database file upload.
func (rs *RestfulServer) PostTelemetry(c *gin.Context) {
	if c.ContentType() == "multipart/form-data" {
		rs.UploadTelemetry(c)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	result, err := rs.Energy.Telemetry.IngestTelemetry(c.Request.Context(), payload)
	if result.Inserted > 0 {
		rs.reportCache().Invalidate(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, &result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (rs *RestfulServer) UploadTelemetry(c *gin.Context) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	if rs.Inbox == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file uploads are not enabled"})
		return
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing file field %q", uploadField)})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	path, err := rs.Inbox.Store(header.Filename, file)
	if err != nil {
		logger.Error("Failed to save upload", zap.String("name", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "saved to inbox", "name": filepath.Base(path)})
}

type PriceRequest struct {
	Timestamp time.Time `json:"ts"`
	Price     *float64  `json:"price"`
}

var priceRequestSchema = z.Struct(z.Shape{
	"Timestamp": z.Time().Required(),
})

func (rs *RestfulServer) PostPrices(c *gin.Context) {
	var reqs []PriceRequest
	if err := decodeArray(c, &reqs); err != nil {
		respondError(c, err, nil)
		return
	}

	inputs := make([]energy.PriceInput, 0, len(reqs))
	for i := range reqs {
		if issues := priceRequestSchema.Validate(&reqs[i]); issues != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": issues, "index": i})
			return
		}
		inputs = append(inputs, energy.PriceInput{Timestamp: reqs[i].Timestamp, Price: reqs[i].Price})
	}

	result, err := rs.Energy.Price.InsertPrices(c.Request.Context(), inputs)
	if result.Inserted > 0 {
		rs.reportCache().Invalidate(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, &result)
		return
	}

	c.JSON(http.StatusOK, result)
}

type ForecastRequest struct {
	Timestamp          time.Time `json:"ts"`
	Temperature        *float64  `json:"temperature"`
	Humidity           *float64  `json:"humidity"`
	WindSpeed          *float64  `json:"wind_speed"`
	WindDirection      *float64  `json:"wind_direction"`
	Precipitation      *float64  `json:"precipitation"`
	CloudCover         *float64  `json:"cloud_cover"`
	ShortwaveRadiation *float64  `json:"shortwave_radiation"`
}

var forecastRequestSchema = z.Struct(z.Shape{
	"Timestamp": z.Time().Required(),
})

func (rs *RestfulServer) PostForecasts(c *gin.Context) {
	var reqs []ForecastRequest
	if err := decodeArray(c, &reqs); err != nil {
		respondError(c, err, nil)
		return
	}

	for i := range reqs {
		if issues := forecastRequestSchema.Validate(&reqs[i]); issues != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": issues, "index": i})
			return
		}
	}

	inputs := common.Mapper(reqs, func(r ForecastRequest) energy.ForecastInput {
		return energy.ForecastInput{
			Timestamp:          r.Timestamp,
			Temperature:        r.Temperature,
			Humidity:           r.Humidity,
			WindSpeed:          r.WindSpeed,
			WindDirection:      r.WindDirection,
			Precipitation:      r.Precipitation,
			CloudCover:         r.CloudCover,
			ShortwaveRadiation: r.ShortwaveRadiation,
		}
	})

	result, err := rs.Energy.Forecast.UpsertForecasts(c.Request.Context(), inputs)
	if result.Inserted > 0 {
		rs.reportCache().Invalidate(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, &result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// decodeArray reads a JSON array body into dest.
func decodeArray(c *gin.Context, dest any) error {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", energy.ErrInvalidPayload, err)
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '[' {
		return fmt.Errorf("%w: expected a JSON array", energy.ErrInvalidPayload)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("%w: %v", energy.ErrInvalidPayload, err)
	}
	return nil
}

type ReportQuery struct {
	Day    string `json:"day" query:"day"`
	Date   string `json:"date" query:"date"`
	Format string `json:"format" query:"format"`
}

var reportQuerySchema = z.Struct(z.Shape{
	"Day":    z.String(),
	"Date":   z.String(),
	"Format": z.String().Default(report.DefaultFormat).OneOf(report.Formats()),
})

// GetReport renders one civil day. day=YYYY-MM-DD picks the day explicitly,
// otherwise date=tomorrow selects the next day and anything else today.
func (rs *RestfulServer) GetReport(c *gin.Context) {
	logger := common.GetLoggerWith(
		common.LoggerNameRestfulServer,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReport),
	)

	var query ReportQuery
	if issues := reportQuerySchema.Parse(zhttp.Request(c.Request), &query); issues != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": issues})
		return
	}

	window, err := timewindow.Resolve(query.Day, query.Date, rs.Energy.Now(), rs.zone())
	if err != nil {
		respondError(c, err, nil)
		return
	}

	renderer, err := report.Lookup(query.Format)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	format := renderer.Extension()

	ctx := c.Request.Context()
	started := time.Now()

	body, ticket, hit := rs.reportCache().Get(ctx, format, window)
	if !hit {
		rep, err := report.Build(ctx, rs.Energy.Fusion, window)
		if err != nil {
			logger.Error("Failed to load report rows", zap.String("date", window.Date()), zap.Error(err))
			metrics.ObserveReport(format, metrics.ResultError, time.Since(started))
			respondError(c, err, nil)
			return
		}

		var buf bytes.Buffer
		if err := renderer.Render(&buf, rep); err != nil {
			logger.Error("Failed to render report", zap.String("format", format), zap.Error(err))
			metrics.ObserveReport(format, metrics.ResultError, time.Since(started))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
			return
		}
		body = buf.Bytes()
		rs.reportCache().Put(ctx, ticket, format, window, body)
	}

	metrics.ObserveReport(format, metrics.ResultSuccess, time.Since(started))

	if format != report.FormatHTML {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(window.Date(), renderer)))
	}
	c.Data(http.StatusOK, renderer.ContentType(), body)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	clientKey := c.Param("client_key")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.SetLimiter(clientKey, req.Rate, req.Burst) {
		c.JSON(http.StatusConflict, gin.H{"error": "rate limiting is disabled"})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
