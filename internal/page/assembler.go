// Package page assembles a route's structured data and visual sections
// from a single typed page configuration.
package page

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/suncoast/sitegen/internal/config"
	"github.com/suncoast/sitegen/internal/layout"
	"github.com/suncoast/sitegen/internal/model"
	"github.com/suncoast/sitegen/internal/schema"
)

// Rendered is an assembled page ready for the base layout.
type Rendered struct {
	Route    string
	Kind     model.Kind
	Metadata model.Metadata
	Schemas  []schema.Document
	Sections []template.HTML
}

// Assembler ties the schema emitters and the layout composer together.
type Assembler struct {
	cfg      config.Config
	composer *layout.Composer
	now      func() time.Time
}

func NewAssembler(cfg config.Config, composer *layout.Composer) *Assembler {
	return &Assembler{cfg: cfg, composer: composer, now: time.Now}
}

// Assemble derives every document and section of p. FAQ text is normalized
// once and the accordion and the FAQPage document are built from that slice.
func (a *Assembler) Assemble(p *model.Page) (*Rendered, error) {
	if p.Route == "" {
		return nil, fmt.Errorf("page %s: %w: route", p.SourcePath, schema.ErrMissingField)
	}
	if p.Metadata.Title == "" {
		return nil, fmt.Errorf("page %s: %w: metadata.title", p.Route, schema.ErrMissingField)
	}
	if p.Metadata.Description == "" {
		return nil, fmt.Errorf("page %s: %w: metadata.description", p.Route, schema.ErrMissingField)
	}

	normalized := *p
	normalized.FAQs = schema.NormalizeFAQs(p.FAQs)
	p = &normalized

	docs, err := a.documents(p)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", p.Route, err)
	}
	sections, err := a.sections(p)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", p.Route, err)
	}
	return &Rendered{
		Route:    p.Route,
		Kind:     p.Kind,
		Metadata: p.Metadata,
		Schemas:  docs,
		Sections: sections,
	}, nil
}

func (a *Assembler) documents(p *model.Page) ([]schema.Document, error) {
	var docs []schema.Document
	b, base := a.cfg.Business, a.cfg.BaseURL

	switch p.Kind {
	case model.KindHome, model.KindFAQ, model.KindIndex, "":
		d, err := schema.LocalBusiness(b, base)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	case model.KindService, model.KindCity:
		lb, err := schema.LocalBusiness(b, base)
		if err != nil {
			return nil, err
		}
		svc, err := schema.Service(p, b, base)
		if err != nil {
			return nil, err
		}
		docs = append(docs, lb, svc)
	case model.KindArticle:
		d, err := schema.Article(p.Article, p.Metadata, p.Route, b, base)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	default:
		return nil, fmt.Errorf("unknown page kind %q", p.Kind)
	}

	if d, ok, err := schema.FAQPage(p.FAQs); err != nil {
		return nil, err
	} else if ok {
		docs = append(docs, d)
	}
	if d, ok, err := schema.BreadcrumbList(p.Breadcrumbs, p.Route, base); err != nil {
		return nil, err
	} else if ok {
		docs = append(docs, d)
	}
	return docs, nil
}

func (a *Assembler) sections(p *model.Page) ([]template.HTML, error) {
	c := a.composer
	subject := p.Service
	if subject == "" {
		subject = p.Metadata.Title
	}
	if p.City != "" {
		subject += " in " + p.City
	}

	renderers := []func() (template.HTML, error){
		func() (template.HTML, error) { return c.Breadcrumbs(p.Breadcrumbs) },
		func() (template.HTML, error) { return c.Hero(p.Hero) },
		func() (template.HTML, error) { return c.Stats(p.Stats) },
		func() (template.HTML, error) { return c.Article(p.Article) },
		func() (template.HTML, error) { return c.Services(subject+" Services", p.Services) },
		func() (template.HTML, error) { return c.Costs(subject+" Costs", p.Costs) },
		func() (template.HTML, error) { return c.Process("Our Process", p.Process) },
		func() (template.HTML, error) { return c.FAQ("Frequently Asked Questions", p.FAQs) },
		func() (template.HTML, error) { return c.Related(relatedHeading(p.Kind), p.Related) },
		func() (template.HTML, error) { return c.CTA("Ready to Get Started?", a.cfg.Business) },
	}

	var out []template.HTML
	for _, render := range renderers {
		html, err := render()
		if err != nil {
			return nil, err
		}
		if html != "" {
			out = append(out, html)
		}
	}
	return out, nil
}

// Render assembles p and writes the full HTML document to w. Nothing is
// written when assembly fails.
func (a *Assembler) Render(w io.Writer, p *model.Page) error {
	r, err := a.Assemble(p)
	if err != nil {
		return err
	}
	scripts, err := schema.Scripts(r.Schemas)
	if err != nil {
		return fmt.Errorf("page %s: %w", p.Route, err)
	}
	return a.composer.Document(w, a.pageData(r, scripts))
}

func (a *Assembler) pageData(r *Rendered, scripts []template.HTML) layout.PageData {
	m := r.Metadata
	canonical := m.Canonical
	if canonical == "" {
		canonical = schema.AbsoluteURL(a.cfg.BaseURL, r.Route)
	}
	og := m.OpenGraph
	data := layout.PageData{
		SiteTitle:     a.cfg.SiteTitle,
		Title:         m.Title,
		Description:   m.Description,
		Keywords:      m.Keywords,
		Canonical:     canonical,
		OGTitle:       firstNonEmpty(og.Title, m.Title),
		OGDescription: firstNonEmpty(og.Description, m.Description),
		OGType:        firstNonEmpty(og.Type, ogType(r.Kind)),
		Kind:          r.Kind,
		Phone:         a.cfg.Business.Phone,
		PhoneHref:     template.URL(a.cfg.Business.TelHref()),
		Year:          a.now().Year(),
		Schemas:       scripts,
		Sections:      r.Sections,
	}
	if og.Image != "" {
		data.OGImage = schema.AbsoluteURL(a.cfg.BaseURL, og.Image)
	}
	return data
}

// relatedHeading titles the link list: the articles index lists articles,
// every other page links to sibling services.
func relatedHeading(k model.Kind) string {
	if k == model.KindIndex {
		return "Articles"
	}
	return "Related Services"
}

func ogType(k model.Kind) string {
	if k == model.KindArticle {
		return "article"
	}
	return "website"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
