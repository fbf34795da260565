// Package render parses the embedded site templates and executes them
// against per-request view data.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/devburak/contextHub-Theme/internal/i18n"
	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/seo"
	"github.com/devburak/contextHub-Theme/internal/theme"
)

// Renderer handles template rendering with per-page template sets.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer with parsed templates. Each page template is
// combined with the base layout and all partials.
func New(templatesFS fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	if err := r.parseTemplates(templatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "templates/partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := templateFiles(templatesFS, "templates/pages")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}

	baseLayout := "templates/layouts/base.html"

	for _, pagePath := range pages {
		name := strings.TrimSuffix(filepath.Base(pagePath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, pagePath)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return nil
}

func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"safe": func(s string) template.HTML {
			return template.HTML(s)
		},
		"t": func(lang, key string, args ...any) string {
			return i18n.T(lang, key, args...)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
	}
}

// PageData is the envelope every template receives.
type PageData struct {
	Title       string
	Lang        string
	Path        string
	Meta        *seo.Meta
	Theme       theme.Theme
	Menu        *model.Menu
	FooterMenu  *model.Menu
	Categories  []model.Category
	CurrentYear int
	Data        any
}

// Render executes a page template into a buffer first, so template
// errors never leak a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data PageData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Lang == "" {
		data.Lang = "tr"
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
