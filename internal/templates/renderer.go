package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

//go:embed views/*.html
var views embed.FS

// Page and Redirect name the entry templates.
const (
	Page     = "page"
	Redirect = "redirect"
)

// Renderer is an html/template backed interfaces.TemplateRenderer.
type Renderer struct {
	tpl   *template.Template
	funcs template.FuncMap
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// Options configures New.
type Options struct {
	// Files overrides the embedded views. Every *.html file at its root is parsed.
	Files fs.FS
	// Funcs is merged over the built-in helpers. Templates expect a "t"
	// translate helper; a key echo is installed when none is supplied.
	Funcs template.FuncMap
}

// New parses the view set once.
func New(opts Options) (*Renderer, error) {
	funcs := baseFuncs()
	maps.Copy(funcs, opts.Funcs)

	files := opts.Files
	pattern := "*.html"
	if files == nil {
		files = views
		pattern = "views/*.html"
	}

	tpl, err := template.New("docsite").Funcs(funcs).ParseFS(files, pattern)
	if err != nil {
		return nil, fmt.Errorf("templates: parse views: %w", err)
	}
	return &Renderer{tpl: tpl, funcs: funcs}, nil
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": toHTML,
		"t": func(_ string, key string, _ ...any) string {
			return key
		},
	}
}

// Render executes the named template.
func (r *Renderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

// RenderTemplate executes the named template, writing to out[0] when given
// and returning the output otherwise.
func (r *Renderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if r.tpl.Lookup(name) == nil {
		return "", fmt.Errorf("templates: template %q not found", name)
	}
	return execute(out, func(w io.Writer) error {
		return r.tpl.ExecuteTemplate(w, name, data)
	})
}

// RenderString parses content as a standalone template with the renderer helpers.
func (r *Renderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(r.funcs).Parse(content)
	if err != nil {
		return "", fmt.Errorf("templates: parse inline: %w", err)
	}
	return execute(out, func(w io.Writer) error {
		return tpl.Execute(w, data)
	})
}

func execute(out []io.Writer, fn func(io.Writer) error) (string, error) {
	if len(out) > 0 && out[0] != nil {
		return "", fn(out[0])
	}
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(value any) template.HTML {
	switch v := value.(type) {
	case nil:
		return ""
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	case []byte:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
