package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "report"

type xlsxRenderer struct{}

func (xlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (xlsxRenderer) Extension() string { return FormatXLSX }

// Render writes one sheet: a header row, then one row per slot with numeric
// cells rounded to the column precision and the placeholder for nulls.
func (xlsxRenderer) Render(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := []any{"Time (" + rep.Zone + ")"}
	for _, col := range rep.Columns {
		header = append(header, col.Title)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	if !rep.HasData() {
		if err := f.SetCellValue(xlsxSheet, "A2", NoDataMessage); err != nil {
			return err
		}
	}

	for r, row := range rep.Rows {
		values := []any{row.Local.Format(TimeLayout)}
		for i := range rep.Columns {
			if v := rep.Rounded(row, i); v != nil {
				values = append(values, *v)
			} else {
				values = append(values, Placeholder)
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
