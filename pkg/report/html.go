package report

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var reportTmpl = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{
			// column 1 is the time
			"colnum": func(i int) int { return i + 2 },
		}).
		ParseFS(templatesFS, "templates/report.html"),
)

type htmlRenderer struct{}

func (htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (htmlRenderer) Extension() string { return FormatHTML }

func (htmlRenderer) Render(w io.Writer, rep *Report) error {
	return reportTmpl.ExecuteTemplate(w, "report.html", struct {
		*Report
		NoData     string
		TimeLayout string
	}{rep, NoDataMessage, TimeLayout})
}
