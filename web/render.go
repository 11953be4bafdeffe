package web

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"blog/utils"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var functions = template.FuncMap{
	"formatDate": utils.FormatDate,
	"formatTime": utils.FormatTime,
	"isoDate": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	// lineBreaks escapes raw post content and keeps its line structure.
	"lineBreaks": func(s string) template.HTML {
		escaped := html.EscapeString(s)
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
}

// Renderer is a gin HTMLRender holding one template set per page. Each set is the base layout,
// the shared partials and the page, executed from "base".
type Renderer struct {
	pages map[string]*template.Template
}

// LoadTemplates parses every *.page.html in fsys together with base.layout.html and *.partial.html.
func LoadTemplates(fsys fs.FS) (*Renderer, error) {
	pageFiles, err := fs.Glob(fsys, "*.page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, pageFile := range pageFiles {
		name := strings.TrimSuffix(path.Base(pageFile), ".page.html")
		ts, err := template.New(name).Funcs(functions).ParseFS(fsys, "base.layout.html", "*.partial.html", pageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pageFile, err)
		}
		r.pages[name] = ts
	}
	return r, nil
}

// DefaultTemplates loads the templates embedded in the binary.
func DefaultTemplates() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	return LoadTemplates(sub)
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	ts, ok := r.pages[name]
	if !ok {
		ts = r.pages["error"]
		data = pageData{Status: 500, Message: "Internal Server Error"}
	}
	return render.HTML{Template: ts, Name: "base", Data: data}
}
