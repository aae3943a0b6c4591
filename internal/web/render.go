package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer holds the parsed page templates. Pages are parsed once at
// startup; a bad template is a build problem, not a request problem.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(sprig.FuncMap()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	err := r.tmpl.ExecuteTemplate(w, name, data)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
