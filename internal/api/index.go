package api

import "html/template"

// indexHTML is the single-page export form. Submitting it navigates to
// GET /api/v1/export so the browser downloads the workbook directly.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Crypto Data Exporter</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 32rem; margin: 3rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.4rem; }
  form { display: grid; gap: 0.8rem; }
  label { display: grid; gap: 0.2rem; font-size: 0.9rem; }
  input, select, button { font-size: 1rem; padding: 0.4rem; }
  .row { display: grid; grid-template-columns: 1fr 1fr; gap: 0.8rem; }
  button { background: #2b6e3f; color: #fff; border: 0; border-radius: 4px; padding: 0.6rem; cursor: pointer; }
  footer { margin-top: 2rem; font-size: 0.8rem; color: #888; }
</style>
</head>
<body>
<h1>Crypto Data Exporter</h1>
<p>Download historical k-line data as an Excel file.</p>
<form action="/api/v1/export" method="get">
  <div class="row">
    <label>Exchange
      <select name="exchange">
        {{range .Exchanges}}<option value="{{.}}">{{.}}</option>{{end}}
      </select>
    </label>
    <label>Trading pair
      <input name="symbol" value="{{.Symbol}}" required>
    </label>
  </div>
  <div class="row">
    <label>Interval
      <select name="interval">
        {{range .Intervals}}<option value="{{.}}"{{if eq (printf "%s" .) "1d"}} selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <label>&nbsp;</label>
  </div>
  <div class="row">
    <label>Start date
      <input type="date" name="start" value="{{.Start}}" required>
    </label>
    <label>End date
      <input type="date" name="end" value="{{.End}}" required>
    </label>
  </div>
  <button type="submit">Fetch and export</button>
</form>
<footer>Data source: exchange public APIs. Large date ranges take a while to download.</footer>
</body>
</html>`

// IndexTemplate parses the embedded form template for the router.
func IndexTemplate() *template.Template {
	return template.Must(template.New("index").Parse(indexHTML))
}
