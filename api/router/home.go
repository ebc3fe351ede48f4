package router

import "html/template"

var homeTemplate = template.Must(template.New("home").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="UTF-8" />
    <title>Products</title>
  </head>
  <body>
    <form action="/portal" method="get">
      <input type="email" name="email" placeholder="Email" required />
      <button type="submit">Open Customer Portal</button>
    </form>
    <br>
{{- range .}}
    <div><a target="_blank" href="/checkout?products={{.ID}}">{{.Name}}</a></div>
{{- end}}
  </body>
</html>
`))
