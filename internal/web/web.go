// Package web holds the HTML templates rendered by the handlers.
package web

import (
	"embed"
	"html/template"
	"strconv"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"id": func(id uint) string {
		return strconv.FormatUint(uint64(id), 10)
	},
}

// Templates parses every embedded page. Each page is addressable by its
// file name, e.g. "login.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

// MustTemplates is Templates for program start-up and tests.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
