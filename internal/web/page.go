package web

import (
	"html/template"

	"github.com/theirongolddev/spendview/internal/cli"
)

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"metric": cli.FormatMetric,
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
    <style>
        body { background-color: #b1c9e3; color: #787474; font-family: sans-serif; margin: 0; padding: 24px; }
        h1, h2 { color: black; }
        .top { display: grid; grid-template-columns: 1fr 1fr 3fr; gap: 16px; align-items: start; }
        .metric { background-color: #dbdb1f; border-radius: 10px; padding: 10px; margin-bottom: 10px; }
        .metric-label { color: #00B0F0; font-weight: bold; }
        .metric-value { color: #0a0a0a; font-size: 1.8rem; }
        .metric-help { font-size: 0.8rem; }
        .split { display: grid; grid-template-columns: 1fr 3fr; gap: 16px; align-items: start; }
        select, button { background-color: #787474; color: #E0E0E0; border-radius: 5px; border: none; padding: 6px; }
        select[multiple] { min-width: 220px; min-height: 12em; }
        .prompt { color: black; padding: 16px 0; }
        footer { margin-top: 24px; font-size: 0.8rem; }
    </style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/">
<input type="hidden" name="submitted" value="1">

<section class="top">
    <div>
        <p>Average Spending Stats</p>
        {{range .LeftMetrics}}
        <div class="metric" title="{{.Help}}">
            <div class="metric-label">{{.Label}}</div>
            <div class="metric-value">{{metric .Value}}</div>
        </div>
        {{end}}
    </div>
    <div>
        <p>Average Spending Stats</p>
        {{range .RightMetrics}}
        <div class="metric" title="{{.Help}}">
            <div class="metric-label">{{.Label}}</div>
            <div class="metric-value">{{metric .Value}}</div>
        </div>
        {{end}}
        {{with .Income}}
        <div class="metric" title="Average {{.Label}}">
            <div class="metric-label">{{.Label}}</div>
            <div class="metric-value">{{metric .Value}}</div>
        </div>
        {{end}}
    </div>
    <div>{{.PaymentsChart}}</div>
</section>

<section class="split">
    <div>
        <h2>Select Categories to Display</h2>
        {{range .GenderOptions}}
        <label><input type="checkbox" name="gender" value="{{.Value}}"{{if .Selected}} checked{{end}}> {{.Label}}</label><br>
        {{end}}
        <button type="submit">Apply</button>
    </div>
    <div>
        <h2>Percentage of Dollars Spent by Gender in Each Category</h2>
        {{.GenderChart}}
    </div>
</section>

<section>
    <h1 title="Choose which categories you want to show, we suggest no more than 3-4">Average Spending by Year in School</h1>
    <label>Select Categories<br>
    <select name="years" multiple>
        {{range .YearOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
    </select></label>
    <button type="submit">Apply</button>
    {{.YearsChart}}
</section>

<section>
    <h1 title="Choose which categories you want to show">Average Spending by Major</h1>
    <label>Select Spending Categories to Display<br>
    <select name="majors" multiple>
        {{range .MajorOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
    </select></label>
    <button type="submit">Apply</button>
    {{if .MajorPrompt}}
    <p class="prompt">{{.MajorPrompt}}</p>
    {{else}}
    {{.MajorsChart}}
    {{end}}
</section>
</form>

<footer>{{.Rows}} students</footer>
<script>
    const stream = new EventSource("/v1/stream");
    stream.addEventListener("reload", () => window.location.reload());
</script>
</body>
</html>
`))
