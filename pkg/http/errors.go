package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-report-service/pkg/db"
	"energy-report-service/pkg/energy"
	"energy-report-service/pkg/report"
	"energy-report-service/pkg/timewindow"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, timewindow.ErrInvalidDateFormat),
		errors.Is(err, energy.ErrInvalidPayload),
		errors.Is(err, report.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrConstraintViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Batch failures also carry
// how far the batch got.
func respondError(c *gin.Context, err error, result *energy.IngestResult) {
	body := gin.H{"error": err.Error()}

	var batchErr *energy.BatchError
	if errors.As(err, &batchErr) {
		body["index"] = batchErr.Index
		body["inserted"] = batchErr.Applied
	}
	if result != nil && len(result.Skipped) > 0 {
		body["skipped"] = result.Skipped
	}

	c.JSON(statusFor(err), body)
}
