package energy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPayload     = errors.New("invalid payload")
	errWriterNotAvailable = errors.New("telemetry writer not available")
)

// IngestResult counts applied entries only. Skipped holds the batch indexes of
// entries that were not records or did not decode.
type IngestResult struct {
	Inserted int   `json:"inserted"`
	Skipped  []int `json:"skipped,omitempty"`
}

// BatchError reports a batch that stopped at entry Index after Applied
// entries were written. Those writes are not rolled back.
type BatchError struct {
	Applied int
	Index   int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch entry %d failed after %d applied: %v", e.Index, e.Applied, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
