// Package layout maps content records to HTML sections.
//
// Renderers never reorder or rewrite their input. An empty record renders
// as the empty string so the page omits the section entirely.
package layout

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/suncoast/sitegen/internal/config"
	"github.com/suncoast/sitegen/internal/model"
)

//go:embed templates/*.html
var embedded embed.FS

// Composer renders sections from a parsed template set.
type Composer struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"last": func(i int, items []model.BreadcrumbItem) bool { return i == len(items)-1 },
}

// New parses the embedded templates, then every .html file under
// overrideDir. A file that redefines a section replaces the embedded one.
// A missing overrideDir is not an error.
func New(overrideDir string) (*Composer, error) {
	tmpl, err := template.New("layout").Funcs(funcs).ParseFS(embedded, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded layouts: %w", err)
	}
	if overrideDir == "" {
		return &Composer{tmpl: tmpl}, nil
	}
	if _, err := os.Stat(overrideDir); os.IsNotExist(err) {
		return &Composer{tmpl: tmpl}, nil
	}

	var files []string
	err = filepath.WalkDir(overrideDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in '%s': %w", overrideDir, err)
	}
	if len(files) > 0 {
		if tmpl, err = tmpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("failed to parse layout overrides: %w", err)
		}
	}
	return &Composer{tmpl: tmpl}, nil
}

func (c *Composer) render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render section '%s': %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

type titled[T any] struct {
	Heading string
	Items   []T
}

// Hero renders the page banner. A hero without a heading is omitted.
func (c *Composer) Hero(h model.Hero) (template.HTML, error) {
	if h.Heading == "" {
		return "", nil
	}
	return c.render("hero", h)
}

// Breadcrumbs renders the visible trail; the last item is the current
// page and is not linked.
func (c *Composer) Breadcrumbs(crumbs []model.BreadcrumbItem) (template.HTML, error) {
	if len(crumbs) == 0 {
		return "", nil
	}
	return c.render("breadcrumbs", crumbs)
}

func (c *Composer) Services(heading string, items []model.ServiceDescriptor) (template.HTML, error) {
	if len(items) == 0 {
		return "", nil
	}
	return c.render("services", titled[model.ServiceDescriptor]{Heading: heading, Items: items})
}

// Costs renders a pricing table. Timeline and warranty columns appear only
// when at least one row carries a value.
func (c *Composer) Costs(heading string, rows []model.CostRow) (template.HTML, error) {
	if len(rows) == 0 {
		return "", nil
	}
	data := struct {
		Heading     string
		Items       []model.CostRow
		HasTimeline bool
		HasWarranty bool
	}{Heading: heading, Items: rows}
	for _, r := range rows {
		data.HasTimeline = data.HasTimeline || r.Timeline != ""
		data.HasWarranty = data.HasWarranty || r.Warranty != ""
	}
	return c.render("costs", data)
}

// Process renders steps in input order with badges numbered 1..N by
// position.
func (c *Composer) Process(heading string, steps []model.ProcessStep) (template.HTML, error) {
	if len(steps) == 0 {
		return "", nil
	}
	return c.render("process", titled[model.ProcessStep]{Heading: heading, Items: steps})
}

func (c *Composer) Stats(stats []model.Stat) (template.HTML, error) {
	if len(stats) == 0 {
		return "", nil
	}
	return c.render("stats", stats)
}

// FAQ renders a collapsed accordion, one item per entry.
func (c *Composer) FAQ(heading string, faqs []model.FAQEntry) (template.HTML, error) {
	if len(faqs) == 0 {
		return "", nil
	}
	return c.render("faq", titled[model.FAQEntry]{Heading: heading, Items: faqs})
}

func (c *Composer) Related(heading string, links []model.Link) (template.HTML, error) {
	if len(links) == 0 {
		return "", nil
	}
	return c.render("related", titled[model.Link]{Heading: heading, Items: links})
}

// CTA renders the call-to-action block. It is omitted when no phone
// number is configured.
func (c *Composer) CTA(heading string, b config.Business) (template.HTML, error) {
	if b.Phone == "" {
		return "", nil
	}
	data := struct {
		Heading   string
		Name      string
		Phone     string
		PhoneHref template.URL
	}{heading, b.Name, b.Phone, template.URL(b.TelHref())}
	return c.render("cta", data)
}

func (c *Composer) Article(a *model.Article) (template.HTML, error) {
	if a == nil || a.Body == "" {
		return "", nil
	}
	return c.render("article", a)
}

// PageData is the input of the base layout.
type PageData struct {
	SiteTitle     string
	Title         string
	Description   string
	Keywords      []string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGType        string
	OGImage       string
	Kind          model.Kind
	Phone         string
	PhoneHref     template.URL
	Year          int
	Schemas       []template.HTML
	Sections      []template.HTML
}

// Document writes a complete HTML document.
func (c *Composer) Document(w io.Writer, data PageData) error {
	if err := c.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("failed to execute base layout: %w", err)
	}
	return nil
}
