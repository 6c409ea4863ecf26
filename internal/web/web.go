// Package web holds the HTML templates of the bookshelf UI.
//
// Templates are embedded into the binary. Setting TEMPLATES_PATH loads
// them from disk instead, which is handy while editing markup.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

//go:embed templates/*.html
var embedded embed.FS

// Static URL prefixes for uploaded and catalog images.
const (
	AvatarURLPrefix = "/static/profile_pics/"
	BookURLPrefix   = "/static/book_pics/"
)

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"avatarURL": func(name string) string {
			return AvatarURLPrefix + name
		},
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"bookImageURL": func(img string) string {
			if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
				return img
			}
			return BookURLPrefix + img
		},
	}
}

// Templates parses the page templates. An empty dir selects the embedded set.
func Templates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(FuncMap())

	if dir == "" {
		parsed, err := tmpl.ParseFS(embedded, "templates/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse embedded templates: %w", err)
		}
		return parsed, nil
	}

	parsed, err := tmpl.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
	}
	return parsed, nil
}
