package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	containerapp "github.com/ams/backend/internal/application/container"
	"github.com/ams/backend/internal/domain/findingaids"
)

var boxListTemplate = template.Must(template.New("box-list").Funcs(template.FuncMap{
	"dates":  formatDates,
	"isItem": func(l findingaids.Level) bool { return l == findingaids.LevelItem },
	"stamp":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.ReferenceCode}}</title>
<style>
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 10pt; }
h1 { font-size: 16pt; margin: 0 0 4mm; }
.meta { margin-bottom: 6mm; }
.meta td { padding: 0 6mm 1mm 0; }
table.entries { width: 100%; border-collapse: collapse; }
table.entries th { text-align: left; border-bottom: 1px solid #000; padding: 1mm; }
table.entries td { border-bottom: 1px solid #ccc; padding: 1mm; vertical-align: top; }
tr.item td.title { padding-left: 6mm; }
.confidential { font-weight: bold; }
</style>
</head>
<body>
<h1>{{.ReferenceCode}}</h1>
<table class="meta">
<tr><td>Series</td><td>{{.SeriesCode}} {{.SeriesTitle}}</td></tr>
<tr><td>Carrier</td><td>{{.CarrierType}}</td></tr>
{{- if .Barcode}}
<tr><td>Barcode</td><td>{{.Barcode}}</td></tr>
{{- end}}
<tr><td>Generated</td><td>{{stamp .GeneratedAt}}</td></tr>
</table>
{{- if .Entries}}
<table class="entries">
<thead><tr><th>Reference code</th><th>Title</th><th>Dates</th><th></th></tr></thead>
<tbody>
{{- range .Entries}}
<tr{{if isItem .Level}} class="item"{{end}}>
<td>{{.ReferenceCode}}</td>
<td class="title">{{.Title}}</td>
<td>{{dates .DateFrom .DateTo}}</td>
<td>{{if .Confidential}}<span class="confidential">Confidential</span>{{end}}</td>
</tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p>This container holds no described folders.</p>
{{- end}}
</body>
</html>
`))

func formatDates(from, to string) string {
	switch {
	case from == "" && to == "":
		return ""
	case to == "" || from == to:
		return from
	case from == "":
		return "- " + to
	}
	return from + " - " + to
}

// RenderBoxListHTML renders the HTML document of a box list
func RenderBoxListHTML(list *containerapp.BoxList) (string, error) {
	var buf bytes.Buffer
	if err := boxListTemplate.Execute(&buf, list); err != nil {
		return "", fmt.Errorf("failed to render box list: %w", err)
	}
	return buf.String(), nil
}
