package routes

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/suncoast/sitegen/internal/model"
	"github.com/suncoast/sitegen/internal/schema"
)

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml for every page of the site in load order.
func Sitemap(site *model.Site, baseURL string) ([]byte, error) {
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range site.Pages {
		u := sitemapURL{
			Loc:      schema.AbsoluteURL(baseURL, p.Route),
			Priority: priority(p),
		}
		if p.Article != nil {
			mod := p.Article.Modified
			if mod.IsZero() {
				mod = p.Article.Published
			}
			if !mod.IsZero() {
				u.LastMod = mod.Format(time.DateOnly)
			}
		}
		set.URLs = append(set.URLs, u)
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if baseURL != "" {
		b.WriteString("Sitemap: " + schema.AbsoluteURL(baseURL, "/sitemap.xml") + "\n")
	}
	return []byte(b.String())
}

func priority(p *model.Page) string {
	switch {
	case p.Route == "/":
		return "1.0"
	case p.Kind == model.KindService:
		return "0.9"
	case p.Kind == model.KindCity:
		return "0.8"
	default:
		return "0.6"
	}
}
