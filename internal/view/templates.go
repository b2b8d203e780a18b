package view

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/web"
)

// Engine renders HTML pages. Each page template is parsed together with
// the shared layout and partials so pages can override layout blocks.
type Engine struct {
	pages map[string]*template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	UserID      string
	IsAdmin     bool
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(v any) string {
			if s, ok := v.(fmt.Stringer); ok {
				return s.String()
			}
			return fmt.Sprint(v)
		},
		"statusColor": StatusColor,
		"typeLabel": func(v any) string {
			if fmt.Sprint(v) == "exportacao" {
				return "Exportação"
			}
			return "Importação"
		},
		"add": func(a, b int) int { return a + b },
	}

	base, err := template.New("base").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	names, err := fs.Glob(web.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tpl, err := clone.ParseFS(web.Templates, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages["pages/"+path.Base(name)] = tpl
	}
	return &Engine{pages: pages}, nil
}

// Render executes a page template inside the shared layout.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tpl.ExecuteTemplate(w, "layout", data)
}
