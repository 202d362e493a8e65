// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

// indexHTML is the single-page UI: a search form, and the current
// result set rendered as tables when a search has completed.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Research Toolkit</title>
<style>
body { font-family: sans-serif; margin: 2em; max-width: 70em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; text-align: left; }
th { background: #f0f0f0; }
code { background: #f7f7f7; padding: 0.2em 0.4em; }
.columns { display: flex; gap: 3em; flex-wrap: wrap; }
</style>
</head>
<body>
<h1>Research Toolkit</h1>

<form method="post" action="/api/search">
  <input type="text" name="query" size="60" placeholder="e.g. aspirin AND stroke[Title/Abstract]" required>
  <input type="number" name="max_results" value="100" min="1" max="500">
  <button type="submit">Search PubMed</button>
</form>

{{if .Result}}
<p><strong>{{len .Result.Articles}}</strong> of <strong>{{.Result.TotalMatches}}</strong> matches
for <code>{{.Result.Query}}</code></p>

{{if .Result.MeshQuery}}
<h2>MeSH search string</h2>
<p><code>{{.Result.MeshQuery}}</code></p>
{{end}}

<p>
<a href="/export/articles.csv">articles.csv</a> ·
<a href="/export/mesh.csv">mesh.csv</a> ·
<a href="/export/words.csv">words.csv</a> ·
<a href="/export/trend.csv">trend.csv</a> ·
<a href="/export/workbook.xlsx">workbook.xlsx</a>
</p>

<div class="columns">
<div>
<h2>Top MeSH terms</h2>
<table>
<tr><th>MeSH term</th><th>Count</th></tr>
{{range .Result.Mesh.Top 10}}<tr><td>{{.Term}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
</div>

<div>
<h2>Word frequency</h2>
<table>
<tr><th>Word</th><th>Count</th></tr>
{{range .Result.Words}}<tr><td>{{.Term}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
</div>

<div>
<h2>Publication years</h2>
<table>
<tr><th>Year</th><th>Count</th></tr>
{{range .Result.Years}}<tr><td>{{.Year}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
</div>
</div>

<h2>Articles</h2>
<table>
<tr><th>PMID</th><th>Title</th><th>Journal</th><th>Year</th></tr>
{{range .Result.Articles}}<tr>
<td><a href="{{.URL}}">{{.PMID}}</a></td>
<td>{{.Title}}</td><td>{{.Journal}}</td><td>{{if .Year}}{{.Year}}{{end}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No search has run yet.</p>
{{end}}
</body>
</html>
`
