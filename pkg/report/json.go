package report

import (
	"encoding/json"
	"io"
	"time"
)

type jsonRenderer struct{}

func (jsonRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (jsonRenderer) Extension() string { return FormatJSON }

func (jsonRenderer) Render(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(rep.Document())
}

// Document is the report as plain maps and slices, the shape of the JSON
// export.
func (rep *Report) Document() map[string]any {
	cols := make([]any, len(rep.Columns))
	for i, col := range rep.Columns {
		cols[i] = map[string]any{"key": col.Key, "title": col.Title}
	}

	rows := make([]any, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		values := map[string]any{
			"timestamp_utc": row.Timestamp.Format(time.RFC3339),
			"time":          row.Local.Format(TimeLayout),
			WholesaleKey:    rep.WholesaleCell(row),
		}
		for i, col := range rep.Columns {
			values[col.Key] = rep.Cell(row, i)
		}
		rows = append(rows, values)
	}

	doc := map[string]any{
		"date":    rep.Date,
		"zone":    rep.Zone,
		"columns": cols,
		"rows":    rows,
	}
	if !rep.HasData() {
		doc["message"] = NoDataMessage
	}
	return doc
}
