// Package templates embeds the server-rendered pages.
package templates

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/view"
)

//go:embed *.html
var files embed.FS

func Funcs() template.FuncMap {
	return template.FuncMap{
		"clamp":      view.Clamp,
		"blockLabel": view.BlockLabel,
		"blockClass": view.BlockClass,
		"formatSize": view.FormatSize,
		"percent":    percent,
	}
}

// Load parses every embedded page. Page templates are named after their file.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "*.html")
}

// percent formats a 0..1 confidence score.
func percent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}
