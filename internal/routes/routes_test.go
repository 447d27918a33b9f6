package routes

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncoast/sitegen/internal/model"
)

const baseURL = "https://www.example-builders.com"

func testSite() *model.Site {
	return model.NewSite([]*model.Page{
		{Route: "/", Kind: model.KindHome},
		{Route: "/roofing/", Kind: model.KindService, Related: []model.Link{
			{Href: "/roofing-tampa/", Label: "Tampa"},
			{Href: "/gutters/", Label: "Gutters"},
		}},
		{
			Route: "/roofing-tampa/",
			Kind:  model.KindCity,
			Hero:  model.Hero{CTALabel: "Quote", CTAHref: "/quote/"},
			Breadcrumbs: []model.BreadcrumbItem{
				{Name: "Home", Href: "/"},
				{Name: "Tampa", Href: "/roofing-tampa/"},
			},
		},
		{Route: "/articles/tile/", Kind: model.KindArticle, Article: &model.Article{
			Published: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
	})
}

func TestResolve(t *testing.T) {
	m := NewManifest(testSite(), baseURL)
	m.AddFile("css/site.css")

	tests := []struct {
		href     string
		internal bool
		ok       bool
	}{
		{"/", true, true},
		{"/roofing/", true, true},
		{"/roofing", true, true},
		{"/roofing/#faq", true, true},
		{"/roofing/?utm=x", true, true},
		{"#contact", true, true},
		{"/css/site.css", true, true},
		{baseURL + "/roofing-tampa/", true, true},
		{"/gutters/", true, false},
		{"/img/missing.png", true, false},
		{"roofing/", true, false},
		{"https://other.test/roofing/", false, false},
		{"tel:9415550100", false, false},
		{"mailto:office@example.test", false, false},
	}
	for _, tt := range tests {
		internal, ok := m.Resolve(tt.href)
		assert.Equal(t, tt.internal, internal, tt.href)
		assert.Equal(t, tt.ok, ok, tt.href)
	}
}

func TestManifestRoutesSorted(t *testing.T) {
	m := NewManifest(testSite(), baseURL)
	assert.Equal(t, []string{"/", "/articles/tile/", "/roofing-tampa/", "/roofing/"}, m.Routes())
	assert.True(t, m.Has("/roofing/"))
	assert.False(t, m.Has("/roofing"))
}

func TestCheckRelated(t *testing.T) {
	site := testSite()
	broken := NewManifest(site, baseURL).CheckRelated(site)
	want := []BrokenLink{
		{From: "/roofing/", Href: "/gutters/", Label: "Gutters"},
		{From: "/roofing-tampa/", Href: "/quote/", Label: "Quote"},
	}
	if diff := cmp.Diff(want, broken); diff != "" {
		t.Errorf("broken links mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractLinks(t *testing.T) {
	doc := `<html><body>
<nav><a href="/">Home</a></nav>
<p>See <a href="/roofing/">our
   <strong>roofing</strong> work</a> or <a name="anchor">nothing</a>.</p>
</body></html>`
	links, err := ExtractLinks(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Link{
		{Href: "/", Text: "Home"},
		{Href: "/roofing/", Text: "our roofing work"},
	}, links)
}

func TestCheckRendered(t *testing.T) {
	m := NewManifest(testSite(), baseURL)
	doc := `<a href="/roofing/">ok</a><a href="/siding/">Siding</a><a href="tel:1">call</a>`
	broken, err := m.CheckRendered("/", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []BrokenLink{{From: "/", Href: "/siding/", Label: "Siding"}}, broken)
}

func TestSitemap(t *testing.T) {
	out, err := Sitemap(testSite(), baseURL)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Equal(t, 4, strings.Count(s, "<url>"))
	assert.Contains(t, s, "<loc>https://www.example-builders.com/roofing-tampa/</loc>")
	assert.Contains(t, s, "<lastmod>2026-03-01</lastmod>")
	assert.Less(t, strings.Index(s, "/roofing/</loc>"), strings.Index(s, "/roofing-tampa/</loc>"))
}

func TestRobots(t *testing.T) {
	assert.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://www.example-builders.com/sitemap.xml\n", string(Robots(baseURL)))
	assert.Equal(t, "User-agent: *\nAllow: /\n", string(Robots("")))
}
