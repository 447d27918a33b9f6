// Package routes holds the route manifest of a built site and checks
// internal links against it.
package routes

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/suncoast/sitegen/internal/model"
)

// Manifest is the set of routes and static files a build publishes.
type Manifest struct {
	host   string
	routes map[string]struct{}
	files  map[string]struct{}
}

// NewManifest builds a manifest for the site's routes. baseURL identifies
// absolute links that point back at the site.
func NewManifest(site *model.Site, baseURL string) *Manifest {
	m := &Manifest{
		routes: make(map[string]struct{}, len(site.Pages)),
		files:  make(map[string]struct{}),
	}
	if u, err := url.Parse(baseURL); err == nil {
		m.host = u.Host
	}
	for _, p := range site.Pages {
		m.routes[p.Route] = struct{}{}
	}
	return m
}

// AddFile registers a published file such as /sitemap.xml or an asset
// copied from static/.
func (m *Manifest) AddFile(p string) {
	m.files["/"+strings.TrimPrefix(p, "/")] = struct{}{}
}

// Routes returns every route, sorted.
func (m *Manifest) Routes() []string {
	out := make([]string, 0, len(m.routes))
	for r := range m.routes {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Has reports whether route is published.
func (m *Manifest) Has(route string) bool {
	_, ok := m.routes[route]
	return ok
}

// Resolve classifies href. internal is false for links leaving the site
// (other hosts, tel:, mailto:); for internal links ok reports whether the
// target is published. Query strings and fragments are ignored, and a
// missing trailing slash on a route is tolerated.
func (m *Manifest) Resolve(href string) (internal, ok bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return true, false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false, false
	}
	if u.Host != "" && u.Host != m.host {
		return false, false
	}
	if u.Path == "" {
		// Fragment or query on the current page.
		return true, u.Fragment != "" || u.RawQuery != ""
	}
	if !strings.HasPrefix(u.Path, "/") {
		return true, false
	}
	if _, found := m.files[u.Path]; found {
		return true, true
	}
	if path.Ext(u.Path) != "" {
		return true, false
	}
	return true, m.Has(model.CleanRoute(u.Path))
}

// BrokenLink is an internal link whose target is not published.
type BrokenLink struct {
	From  string
	Href  string
	Label string
}

// CheckRelated checks every related link and breadcrumb href authored in
// the site's pages.
func (m *Manifest) CheckRelated(site *model.Site) []BrokenLink {
	var broken []BrokenLink
	for _, p := range site.Pages {
		for _, l := range p.Related {
			if internal, ok := m.Resolve(l.Href); internal && !ok {
				broken = append(broken, BrokenLink{From: p.Route, Href: l.Href, Label: l.Label})
			}
		}
		for _, c := range p.Breadcrumbs {
			if internal, ok := m.Resolve(c.Href); internal && !ok {
				broken = append(broken, BrokenLink{From: p.Route, Href: c.Href, Label: c.Name})
			}
		}
		if p.Hero.CTAHref != "" {
			if internal, ok := m.Resolve(p.Hero.CTAHref); internal && !ok {
				broken = append(broken, BrokenLink{From: p.Route, Href: p.Hero.CTAHref, Label: p.Hero.CTALabel})
			}
		}
	}
	return broken
}
