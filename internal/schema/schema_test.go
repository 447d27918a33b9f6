package schema

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suncoast/sitegen/internal/config"
	"github.com/suncoast/sitegen/internal/model"
)

const baseURL = "https://www.example-builders.com"

func testBusiness() config.Business {
	return config.Business{
		Name:       "Suncoast Construction",
		Phone:      "(941) 555-0100",
		Street:     "100 Main St",
		City:       "Bradenton",
		Region:     "FL",
		PostalCode: "34205",
		Country:    "US",
		Logo:       "/img/logo.png",
		AreaServed: []string{"Bradenton", "Sarasota"},
	}
}

// decode round-trips a document into generic JSON for assertions.
func decode(t *testing.T, d Document) map[string]any {
	t.Helper()
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestFAQPageMatchesEntriesInOrder(t *testing.T) {
	faqs := []model.FAQEntry{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}
	doc, ok, err := FAQPage(faqs)
	require.NoError(t, err)
	require.True(t, ok)

	got := decode(t, doc)
	assert.Equal(t, "https://schema.org", got["@context"])
	assert.Equal(t, "FAQPage", got["@type"])

	entities := got["mainEntity"].([]any)
	require.Len(t, entities, 2)
	for i, want := range faqs {
		q := entities[i].(map[string]any)
		assert.Equal(t, "Question", q["@type"])
		assert.Equal(t, want.Question, q["name"])
		assert.Equal(t, want.Answer, q["acceptedAnswer"].(map[string]any)["text"])
	}
}

func TestFAQPageEmptyIsOmitted(t *testing.T) {
	_, ok, err := FAQPage(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFAQPageMissingAnswer(t *testing.T) {
	_, _, err := FAQPage([]model.FAQEntry{{Question: "Q1"}})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "acceptedAnswer.text")
}

func TestScriptEscapesMarkup(t *testing.T) {
	doc, _, err := FAQPage([]model.FAQEntry{{
		Question: "Is </script><script>alert(1)</script> safe?",
		Answer:   "Tom & Jerry say \"yes\"\nand\tno",
	}})
	require.NoError(t, err)

	script, err := doc.Script()
	require.NoError(t, err)
	s := string(script)
	assert.True(t, strings.HasPrefix(s, `<script type="application/ld+json">`))
	assert.Equal(t, 1, strings.Count(s, "</script>"), "authored text must not close the script element")
	assert.NotContains(t, s, "<script>alert")
	assert.Contains(t, s, `Tom \u0026 Jerry say \"yes\" and no`)
}

func TestOutputIsDeterministic(t *testing.T) {
	p := &model.Page{
		Route:    "/roofing/",
		Service:  "Roofing",
		Metadata: model.Metadata{Title: "Roofing", Description: "Roof work"},
		Services: []model.ServiceDescriptor{{Name: "Tile"}, {Name: "Metal"}},
	}
	first, err := Service(p, testBusiness(), baseURL)
	require.NoError(t, err)
	a, err := json.Marshal(first)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Service(p, testBusiness(), baseURL)
		require.NoError(t, err)
		b, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestLocalBusiness(t *testing.T) {
	doc, err := LocalBusiness(testBusiness(), baseURL)
	require.NoError(t, err)
	got := decode(t, doc)

	assert.Equal(t, "GeneralContractor", got["@type"])
	assert.Equal(t, "(941) 555-0100", got["telephone"])
	assert.Equal(t, baseURL+"/", got["url"])
	assert.Equal(t, baseURL+"/img/logo.png", got["logo"])
	addr := got["address"].(map[string]any)
	assert.Equal(t, "PostalAddress", addr["@type"])
	assert.Equal(t, "Bradenton", addr["addressLocality"])
	assert.Len(t, got["areaServed"], 2)
	assert.NotContains(t, got, "email")
}

func TestLocalBusinessRequiresPhone(t *testing.T) {
	b := testBusiness()
	b.Phone = ""
	_, err := LocalBusiness(b, baseURL)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "telephone")
}

func TestServiceForCityPage(t *testing.T) {
	p := &model.Page{
		Route:    "/exterior-waterproofing-bradenton/",
		Kind:     model.KindCity,
		Service:  "Exterior Waterproofing",
		City:     "Bradenton",
		Metadata: model.Metadata{Title: "t", Description: "Waterproofing in Bradenton"},
		Services: []model.ServiceDescriptor{
			{Name: "Foundation sealing", Description: "Below grade"},
			{Name: "Wall coatings"},
		},
	}
	doc, err := Service(p, testBusiness(), baseURL)
	require.NoError(t, err)
	got := decode(t, doc)

	assert.Equal(t, "Exterior Waterproofing in Bradenton", got["name"])
	assert.Equal(t, "Exterior Waterproofing", got["serviceType"])
	assert.Equal(t, baseURL+"/exterior-waterproofing-bradenton/", got["url"])
	area := got["areaServed"].([]any)
	require.Len(t, area, 1)
	assert.Equal(t, "Bradenton", area[0].(map[string]any)["name"])

	offers := got["hasOfferCatalog"].(map[string]any)["itemListElement"].([]any)
	require.Len(t, offers, 2)
	assert.Equal(t, "Foundation sealing", offers[0].(map[string]any)["itemOffered"].(map[string]any)["name"])
	assert.Equal(t, "Wall coatings", offers[1].(map[string]any)["itemOffered"].(map[string]any)["name"])
}

func TestServiceRequiresName(t *testing.T) {
	_, err := Service(&model.Page{Route: "/x/"}, testBusiness(), baseURL)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestBreadcrumbList(t *testing.T) {
	crumbs := []model.BreadcrumbItem{
		{Name: "Home", Href: "/"},
		{Name: "Services", Href: "/services/"},
		{Name: "Design Build", Href: "/services/commercial/design-build/"},
	}
	doc, ok, err := BreadcrumbList(crumbs, "/services/commercial/design-build/", baseURL)
	require.NoError(t, err)
	require.True(t, ok)

	items := decode(t, doc)["itemListElement"].([]any)
	require.Len(t, items, 3)
	for i, c := range crumbs {
		item := items[i].(map[string]any)
		assert.EqualValues(t, i+1, item["position"])
		assert.Equal(t, c.Name, item["name"])
		assert.Equal(t, AbsoluteURL(baseURL, c.Href), item["item"])
	}
}

func TestBreadcrumbListEmptyIsOmitted(t *testing.T) {
	_, ok, err := BreadcrumbList(nil, "/x/", baseURL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateTrail(t *testing.T) {
	tests := []struct {
		name   string
		crumbs []model.BreadcrumbItem
		route  string
		ok     bool
	}{
		{
			name:   "valid chain",
			crumbs: []model.BreadcrumbItem{{Name: "Home", Href: "/"}, {Name: "Roofing", Href: "/roofing/"}},
			route:  "/roofing/",
			ok:     true,
		},
		{
			name:   "single root item",
			crumbs: []model.BreadcrumbItem{{Name: "Home", Href: "/"}},
			route:  "/",
			ok:     true,
		},
		{
			name:   "last item is not the page",
			crumbs: []model.BreadcrumbItem{{Name: "Home", Href: "/"}, {Name: "Roofing", Href: "/roofing/"}},
			route:  "/roofing/tampa/",
		},
		{
			name: "sibling instead of ancestor",
			crumbs: []model.BreadcrumbItem{
				{Name: "Home", Href: "/"},
				{Name: "Services", Href: "/services/"},
				{Name: "Tampa", Href: "/roofing-tampa/"},
			},
			route: "/roofing-tampa/",
		},
		{
			name:   "repeated href",
			crumbs: []model.BreadcrumbItem{{Name: "Home", Href: "/"}, {Name: "Home again", Href: "/"}},
			route:  "/",
		},
		{
			name: "prefix without segment boundary",
			crumbs: []model.BreadcrumbItem{
				{Name: "Home", Href: "/"},
				{Name: "Serv", Href: "/serv"},
				{Name: "Services", Href: "/services/"},
			},
			route: "/services/",
		},
		{
			name:   "trail does not start at the root",
			crumbs: []model.BreadcrumbItem{{Name: "Services", Href: "/services/"}, {Name: "Roofing", Href: "/services/roofing/"}},
			route:  "/services/roofing/",
		},
		{
			name:   "single item that is not the root",
			crumbs: []model.BreadcrumbItem{{Name: "Roofing", Href: "/roofing/"}},
			route:  "/roofing/",
		},
		{
			name: "same route with and without trailing slash",
			crumbs: []model.BreadcrumbItem{
				{Name: "Home", Href: "/"},
				{Name: "Roofing", Href: "/roofing"},
				{Name: "Roofing again", Href: "/roofing/"},
			},
			route: "/roofing/",
		},
		{
			name:   "last item matches the route once cleaned",
			crumbs: []model.BreadcrumbItem{{Name: "Home", Href: "/"}, {Name: "Roofing", Href: "/roofing"}},
			route:  "/roofing/",
			ok:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrail(tt.crumbs, tt.route)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrBreadcrumbPath)
		})
	}
}

func TestValidateTrailMissingName(t *testing.T) {
	err := ValidateTrail([]model.BreadcrumbItem{{Href: "/"}}, "/")
	require.ErrorIs(t, err, ErrMissingField)
}

func TestArticle(t *testing.T) {
	a := &model.Article{
		Headline:  "Concrete Restoration Costs in 2026",
		Author:    "Jordan Reyes",
		Published: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Modified:  time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Image:     "/img/concrete.jpg",
	}
	doc, err := Article(a, model.Metadata{Description: "What concrete repair costs"}, "/articles/concrete/", testBusiness(), baseURL)
	require.NoError(t, err)
	got := decode(t, doc)

	assert.Equal(t, "Article", got["@type"])
	assert.Equal(t, "2026-03-01", got["datePublished"])
	assert.Equal(t, "2026-04-02", got["dateModified"])
	assert.Equal(t, "What concrete repair costs", got["description"])
	assert.Equal(t, "Person", got["author"].(map[string]any)["@type"])
	assert.Equal(t, baseURL+"/img/logo.png", got["publisher"].(map[string]any)["logo"].(map[string]any)["url"])
	assert.Equal(t, baseURL+"/articles/concrete/", got["mainEntityOfPage"])
}

func TestArticleRequiresPublishedDate(t *testing.T) {
	_, err := Article(&model.Article{Headline: "h"}, model.Metadata{}, "/a/", testBusiness(), baseURL)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "datePublished")

	_, err = Article(nil, model.Metadata{}, "/a/", testBusiness(), baseURL)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://x.test/a/", AbsoluteURL("https://x.test/", "/a/"))
	assert.Equal(t, "/a/", AbsoluteURL("", "/a/"))
	assert.Equal(t, "https://cdn.test/i.png", AbsoluteURL("https://x.test", "https://cdn.test/i.png"))
}

func TestIsPathPrefix(t *testing.T) {
	assert.True(t, IsPathPrefix("/", "/services/"))
	assert.True(t, IsPathPrefix("/services/", "/services/roofing/"))
	assert.True(t, IsPathPrefix("/services", "/services/roofing/"))
	assert.False(t, IsPathPrefix("/serv", "/services/"))
	assert.False(t, IsPathPrefix("/services/", "/services/"))
	assert.False(t, IsPathPrefix("/roofing/", "/services/"))
}
