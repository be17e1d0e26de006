// Package web embeds the page templates and static assets served by the greeter.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

const (
	// IndexTemplate renders the name form.
	IndexTemplate = "index.html"

	// HelloTemplate renders the greeting result.
	HelloTemplate = "hello.html"

	// FaviconPath is the location of the icon inside Static().
	FaviconPath = "favicon.ico"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}
