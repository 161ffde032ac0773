package main

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const previewLength = 150

// preview cuts content to previewLength characters, marking the cut with an
// ellipsis.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

// datetime, date and clock show a timestamp that did not parse as sent.
func datetime(ts Timestamp) string {
	if ts.IsZero() {
		return ts.Raw
	}
	return ts.Format("1/2/2006, 3:04:05 PM")
}

func date(ts Timestamp) string {
	if ts.IsZero() {
		return ts.Raw
	}
	return ts.Format("1/2/2006")
}

func clock(ts Timestamp) string {
	if ts.IsZero() {
		return ts.Raw
	}
	return ts.Format("3:04:05 PM")
}

func loadTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template)
	pages := []string{"list.html", "detail.html", "form.html", "delete.html"}

	funcs := template.FuncMap{
		"preview":  preview,
		"datetime": datetime,
		"date":     date,
		"clock":    clock,
	}

	for _, page := range pages {
		templates[page] = template.Must(
			template.New("").Funcs(funcs).ParseFS(templatesFS,
				"templates/base.html",
				"templates/partials.html",
				"templates/"+page,
			))
	}

	return templates
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
