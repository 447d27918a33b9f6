package model

import (
	"fmt"
	"strings"
)

// CityOverride customizes one city of a LocalizedServicePage.
type CityOverride struct {
	Name       string     `yaml:"name"`
	Slug       string     `yaml:"slug,omitempty"`
	HeroImage  string     `yaml:"heroImage,omitempty"`
	Intro      string     `yaml:"intro,omitempty"`
	ExtraFAQs  []FAQEntry `yaml:"extraFaqs,omitempty"`
	ExtraLinks []Link     `yaml:"extraLinks,omitempty"`
}

// LocalizedServicePage is a single service template expanded into one
// page per city. Text fields may reference {service} and {city}.
//
// With Parent empty the route is /<service>-<city>/ and the trail is
// Home > page. With Parent set (for example /services/waterproofing/) the
// route is <parent><city>/ and the trail is Home > service > city.
type LocalizedServicePage struct {
	Service    string              `yaml:"service"`
	Slug       string              `yaml:"slug,omitempty"`
	Parent     string              `yaml:"parent,omitempty"`
	ParentName string              `yaml:"parentName,omitempty"`
	Metadata   Metadata            `yaml:"metadata"`
	Hero       Hero                `yaml:"hero"`
	Services   []ServiceDescriptor `yaml:"services,omitempty"`
	Costs      []CostRow           `yaml:"costs,omitempty"`
	Process    []ProcessStep       `yaml:"process,omitempty"`
	FAQs       []FAQEntry          `yaml:"faqs,omitempty"`
	Stats      []Stat              `yaml:"stats,omitempty"`
	Related    []Link              `yaml:"related,omitempty"`
	Cities     []CityOverride      `yaml:"cities"`
	SourcePath string              `yaml:"-"`
}

// Route returns the route of the page generated for city.
func (l *LocalizedServicePage) Route(city CityOverride) string {
	citySlug := city.Slug
	if citySlug == "" {
		citySlug = Slugify(city.Name)
	}
	if l.Parent != "" {
		return strings.TrimSuffix(l.Parent, "/") + "/" + citySlug + "/"
	}
	serviceSlug := l.Slug
	if serviceSlug == "" {
		serviceSlug = Slugify(l.Service)
	}
	return "/" + serviceSlug + "-" + citySlug + "/"
}

// Expand builds one city page per configured city, in declaration order.
// Sibling city pages are linked to each other after the authored related
// links.
func (l *LocalizedServicePage) Expand() ([]*Page, error) {
	if l.Service == "" {
		return nil, fmt.Errorf("localized page %s: service name is required", l.SourcePath)
	}
	if len(l.Cities) == 0 {
		return nil, fmt.Errorf("localized page %q: no cities configured", l.Service)
	}

	pages := make([]*Page, 0, len(l.Cities))
	for _, city := range l.Cities {
		if city.Name == "" {
			return nil, fmt.Errorf("localized page %q: city without a name", l.Service)
		}
		pages = append(pages, l.expandCity(city))
	}

	for i, p := range pages {
		for j, city := range l.Cities {
			if i == j {
				continue
			}
			p.Related = append(p.Related, Link{
				Href:  pages[j].Route,
				Label: l.Service + " in " + city.Name,
			})
		}
	}
	return pages, nil
}

func (l *LocalizedServicePage) expandCity(city CityOverride) *Page {
	r := strings.NewReplacer("{service}", l.Service, "{city}", city.Name)
	route := l.Route(city)

	p := &Page{
		Route:      route,
		Kind:       KindCity,
		Service:    l.Service,
		City:       city.Name,
		SourcePath: l.SourcePath,
		Metadata: Metadata{
			Title:       r.Replace(l.Metadata.Title),
			Description: r.Replace(l.Metadata.Description),
			Canonical:   l.Metadata.Canonical,
			OpenGraph: OpenGraph{
				Title:       r.Replace(l.Metadata.OpenGraph.Title),
				Description: r.Replace(l.Metadata.OpenGraph.Description),
				Image:       l.Metadata.OpenGraph.Image,
				Type:        l.Metadata.OpenGraph.Type,
			},
		},
		Hero: Hero{
			Heading:    r.Replace(l.Hero.Heading),
			Subheading: r.Replace(l.Hero.Subheading),
			Image:      l.Hero.Image,
			CTALabel:   r.Replace(l.Hero.CTALabel),
			CTAHref:    l.Hero.CTAHref,
		},
	}
	if p.Metadata.Title == "" {
		p.Metadata.Title = l.Service + " in " + city.Name
	}
	if city.HeroImage != "" {
		p.Hero.Image = city.HeroImage
	}
	if city.Intro != "" {
		p.Hero.Subheading = city.Intro
	}
	for _, k := range l.Metadata.Keywords {
		p.Metadata.Keywords = append(p.Metadata.Keywords, r.Replace(k))
	}

	for _, s := range l.Services {
		p.Services = append(p.Services, ServiceDescriptor{
			Name:        r.Replace(s.Name),
			Description: r.Replace(s.Description),
			CostRange:   s.CostRange,
			Icon:        s.Icon,
		})
	}
	p.Costs = append(p.Costs, l.Costs...)
	for _, s := range l.Process {
		p.Process = append(p.Process, ProcessStep{
			Ordinal:     s.Ordinal,
			Title:       r.Replace(s.Title),
			Description: r.Replace(s.Description),
		})
	}
	for _, f := range l.FAQs {
		p.FAQs = append(p.FAQs, FAQEntry{Question: r.Replace(f.Question), Answer: r.Replace(f.Answer)})
	}
	p.FAQs = append(p.FAQs, city.ExtraFAQs...)
	for _, s := range l.Stats {
		p.Stats = append(p.Stats, Stat{Value: s.Value, Label: r.Replace(s.Label)})
	}
	for _, link := range l.Related {
		p.Related = append(p.Related, Link{Href: link.Href, Label: r.Replace(link.Label)})
	}
	p.Related = append(p.Related, city.ExtraLinks...)

	p.Breadcrumbs = []BreadcrumbItem{{Name: "Home", Href: "/"}}
	if l.Parent != "" {
		parentName := l.ParentName
		if parentName == "" {
			parentName = l.Service
		}
		p.Breadcrumbs = append(p.Breadcrumbs, BreadcrumbItem{Name: parentName, Href: l.Parent})
		p.Breadcrumbs = append(p.Breadcrumbs, BreadcrumbItem{Name: city.Name, Href: route})
	} else {
		p.Breadcrumbs = append(p.Breadcrumbs, BreadcrumbItem{Name: l.Service + " " + city.Name, Href: route})
	}
	return p
}
