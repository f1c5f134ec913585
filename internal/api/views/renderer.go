package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex    = "index.html"
	PagePlace    = "place.html"
	PageLogin    = "login.html"
	PageAdmin    = "admin.html"
	PageNotFound = "notfound.html"
	PageError    = "error.html"
)

var pages = []string{PageIndex, PagePlace, PageLogin, PageAdmin, PageNotFound, PageError}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the layout.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"glyphs": RatingGlyphs,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{templates: templates}, nil
}

// Render writes page with status. The page is executed into a buffer first
// so a template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
