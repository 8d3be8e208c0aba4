package render

import (
	"html/template"
	"io"
)

var biPage = template.Must(template.New("bi").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="margin:0">
<iframe title="{{.Title}}" width="100%" height="{{.Height}}" src="{{.URL}}" frameborder="0" allowFullScreen="true"></iframe>
</body>
</html>
`))

// BIPage writes a page that embeds the external BI dashboard at url
func BIPage(w io.Writer, title, url string) error {
	return biPage.Execute(w, struct {
		Title  string
		URL    string
		Height int
	}{Title: title, URL: url, Height: 800})
}
