package content

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v2"

	"github.com/suncoast/sitegen/internal/model"
)

// articleMatter is the front matter of an article file.
type articleMatter struct {
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
	Keywords    []string               `yaml:"keywords"`
	Route       string                 `yaml:"route"`
	Date        string                 `yaml:"date"`
	Modified    string                 `yaml:"modified"`
	Author      string                 `yaml:"author"`
	Image       string                 `yaml:"image"`
	Summary     string                 `yaml:"summary"`
	FAQs        []model.FAQEntry       `yaml:"faqs"`
	Related     []model.Link           `yaml:"related"`
	Breadcrumbs []model.BreadcrumbItem `yaml:"breadcrumbs"`
}

// strictMatter decodes YAML front matter so unknown keys are reported like
// they are for page and localized files.
var strictMatter = frontmatter.NewFormat("---", "---", yaml.UnmarshalStrict)

var dateFormats = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
	),
)

func (l *Loader) loadArticles() ([]*model.Page, error) {
	var pages []*model.Page
	err := l.walk(articlesDir, ".md", func(path string, data []byte) error {
		p, err := l.parseArticle(path, data)
		if err != nil {
			return err
		}
		pages = append(pages, p)
		return nil
	})
	return pages, err
}

func (l *Loader) parseArticle(path string, data []byte) (*model.Page, error) {
	var fm articleMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm, strictMatter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse front matter of '%s': %w", path, err)
	}

	var htmlBuf bytes.Buffer
	if err := markdown.Convert(body, &htmlBuf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", path, err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	title := fm.Title
	if title == "" {
		title = model.Titleize(slug)
	}
	route := fm.Route
	if route == "" {
		route = ArticlesRoute + model.Slugify(slug) + "/"
	}
	route = model.CleanRoute(route)

	published, err := parseDate(fm.Date)
	if err != nil {
		return nil, fmt.Errorf("article '%s': %w", path, err)
	}
	modified, err := parseDate(fm.Modified)
	if err != nil {
		return nil, fmt.Errorf("article '%s': %w", path, err)
	}

	crumbs := fm.Breadcrumbs
	if len(crumbs) == 0 {
		crumbs = []model.BreadcrumbItem{
			{Name: "Home", Href: "/"},
			{Name: "Articles", Href: ArticlesRoute},
			{Name: title, Href: route},
		}
	}

	return &model.Page{
		Route:      route,
		Kind:       model.KindArticle,
		SourcePath: path,
		Metadata: model.Metadata{
			Title:       title,
			Description: firstNonEmpty(fm.Description, fm.Summary),
			Keywords:    fm.Keywords,
			OpenGraph:   model.OpenGraph{Image: fm.Image, Type: "article"},
		},
		FAQs:        fm.FAQs,
		Related:     fm.Related,
		Breadcrumbs: crumbs,
		Article: &model.Article{
			Headline:  title,
			Author:    fm.Author,
			Published: published,
			Modified:  modified,
			Image:     fm.Image,
			Summary:   fm.Summary,
			Body:      template.HTML(htmlBuf.String()),
		},
	}, nil
}

// articleIndex lists every article, newest first by publication date;
// undated articles keep their load order at the end.
func articleIndex(articles []*model.Page) *model.Page {
	sorted := make([]*model.Page, len(articles))
	copy(sorted, articles)
	sortByDateDesc(sorted)

	index := &model.Page{
		Route:      ArticlesRoute,
		Kind:       model.KindIndex,
		SourcePath: articlesDir,
		Metadata: model.Metadata{
			Title:       "Construction Guides & Articles",
			Description: "Guides on construction costs, permits and materials for Florida property owners.",
		},
		Hero: model.Hero{Heading: "Construction Guides & Articles"},
		Breadcrumbs: []model.BreadcrumbItem{
			{Name: "Home", Href: "/"},
			{Name: "Articles", Href: ArticlesRoute},
		},
	}
	for _, a := range sorted {
		index.Related = append(index.Related, model.Link{Href: a.Route, Label: a.Metadata.Title})
	}
	return index
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date '%s', use YYYY-MM-DD or RFC3339", s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func sortByDateDesc(pages []*model.Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		di, dj := pages[i].Article.Published, pages[j].Article.Published
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.After(dj)
	})
}
