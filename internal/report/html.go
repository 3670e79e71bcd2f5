package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"BreakoutSentinel/internal/model"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>BreakoutSentinel {{.AsOf}}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; }
td:first-child { text-align: left; font-weight: bold; }
</style>
</head>
<body>
<h1>Pipeline results as of {{.AsOf}}</h1>
{{range .Tables}}
<h2>{{.Title}}</h2>
{{if .Rows}}<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p>{{.Empty}}</p>
{{end}}{{end}}
</body>
</html>
`))

// WriteHTML renders the run as a standalone HTML page.
func WriteHTML(w io.Writer, res *model.RunResult) error {
	return pageTmpl.Execute(w, struct {
		AsOf   string
		Tables []Table
	}{
		AsOf:   res.AsOf.Format("2006-01-02"),
		Tables: Tables(res),
	})
}

// SaveHTML writes the HTML report to path, creating parent directories.
func SaveHTML(path string, res *model.RunResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteHTML(f, res); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}
