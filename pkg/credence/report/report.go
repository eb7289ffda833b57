package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"credence/pkg/credence/store"
)

var tmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; max-width: 60em; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #999; padding: 0.3em 0.9em; text-align: left; }
pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
.meta { color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">run {{.Run.ID}}{{if .Run.Network}} &middot; network {{.Run.Network}}{{end}}{{if .Created}} &middot; {{.Created}}{{end}}</p>

<h2>Evidence</h2>
{{if .Evidence}}<ul>
{{range .Evidence}}<li>{{.Name}} = {{.Value}}</li>
{{end}}</ul>{{else}}<p>No variables observed.</p>{{end}}

<h2>Posterior</h2>
<table>
<tr><th>{{.Run.Query}}</th><th>probability</th></tr>
{{range .Posterior}}<tr><td>{{.Value}}</td><td>{{printf "%.4f" .Prob}}</td></tr>
{{end}}</table>
{{if .Run.Trace}}
<h2>Trace</h2>
<pre>{{.Run.Trace}}</pre>
{{end}}</body>
</html>
`))

type assignment struct {
	Name  string
	Value string
}

type outcome struct {
	Value string
	Prob  float64
}

type page struct {
	Title     string
	Run       store.Run
	Created   string
	Evidence  []assignment
	Posterior []outcome
}

// Render writes a standalone HTML report for one run. Evidence and
// posterior rows are sorted by name so reports are reproducible.
func Render(w io.Writer, r store.Run) error {
	data := page{
		Title: fmt.Sprintf("P(%s | %s)", r.Query, r.Evidence),
		Run:   r,
	}
	if !r.CreatedAt.IsZero() {
		data.Created = r.CreatedAt.UTC().Format(time.RFC3339)
	}

	for name, value := range r.Evidence {
		data.Evidence = append(data.Evidence, assignment{Name: name, Value: value})
	}
	sort.Slice(data.Evidence, func(i, j int) bool {
		return data.Evidence[i].Name < data.Evidence[j].Name
	})

	for value, p := range r.Posterior {
		data.Posterior = append(data.Posterior, outcome{Value: value, Prob: p})
	}
	sort.Slice(data.Posterior, func(i, j int) bool {
		return data.Posterior[i].Value < data.Posterior[j].Value
	})

	return tmpl.Execute(w, data)
}
