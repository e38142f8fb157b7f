package report

import (
	"encoding/csv"
	"io"
	"time"
)

type csvRenderer struct{}

func (csvRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (csvRenderer) Extension() string { return FormatCSV }

func (csvRenderer) Render(w io.Writer, rep *Report) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp_utc", "timestamp_local", WholesaleKey}
	for _, col := range rep.Columns {
		header = append(header, col.Key)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	if !rep.HasData() {
		if err := cw.Write([]string{NoDataMessage}); err != nil {
			return err
		}
	}

	for _, row := range rep.Rows {
		record := append([]string{
			row.Timestamp.Format(time.RFC3339),
			row.Local.Format("2006-01-02 15:04:05"),
			rep.WholesaleCell(row),
		}, rep.Cells(row)...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
