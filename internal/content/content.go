// Package content loads page configurations from a content directory:
//
//	pages/**/*.yaml      one page per file
//	localized/*.yaml     one service template expanded per city
//	articles/**/*.md     articles with YAML front matter
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/suncoast/sitegen/internal/model"
)

const (
	pagesDir     = "pages"
	localizedDir = "localized"
	articlesDir  = "articles"

	// ArticlesRoute is the listing page synthesized when articles exist.
	ArticlesRoute = "/articles/"
)

// ErrDuplicateRoute reports two content files producing the same route.
var ErrDuplicateRoute = errors.New("duplicate route")

// Loader reads a content directory into a Site.
type Loader struct {
	dir    string
	logger *zap.Logger
}

func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load reads pages, then localized templates, then articles. Pages keep
// that order, and file order within each group is lexical.
func (l *Loader) Load() (*model.Site, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory '%s' not found", l.dir)
	}

	var pages []*model.Page

	explicit, err := l.loadPages()
	if err != nil {
		return nil, err
	}
	pages = append(pages, explicit...)

	localized, err := l.loadLocalized()
	if err != nil {
		return nil, err
	}
	pages = append(pages, localized...)

	articles, err := l.loadArticles()
	if err != nil {
		return nil, err
	}
	if len(articles) > 0 {
		pages = append(pages, articles...)
		pages = append(pages, articleIndex(articles))
	}

	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if prev, ok := seen[p.Route]; ok {
			return nil, fmt.Errorf("%w: %s defined by %s and %s", ErrDuplicateRoute, p.Route, prev, p.SourcePath)
		}
		seen[p.Route] = p.SourcePath
	}

	l.logger.Info("Content loaded",
		zap.String("dir", l.dir),
		zap.Int("pages", len(explicit)),
		zap.Int("cityPages", len(localized)),
		zap.Int("articles", len(articles)))
	return model.NewSite(pages), nil
}

func (l *Loader) loadPages() ([]*model.Page, error) {
	var pages []*model.Page
	err := l.walk(pagesDir, ".yaml", func(path string, data []byte) error {
		var p model.Page
		if err := yaml.UnmarshalStrict(data, &p); err != nil {
			return fmt.Errorf("failed to decode page '%s': %w", path, err)
		}
		p.SourcePath = path
		p.Route = model.CleanRoute(p.Route)
		if p.Kind == "" {
			p.Kind = model.KindService
			if p.Route == "/" {
				p.Kind = model.KindHome
			}
		}
		pages = append(pages, &p)
		return nil
	})
	return pages, err
}

func (l *Loader) loadLocalized() ([]*model.Page, error) {
	var pages []*model.Page
	err := l.walk(localizedDir, ".yaml", func(path string, data []byte) error {
		var def model.LocalizedServicePage
		if err := yaml.UnmarshalStrict(data, &def); err != nil {
			return fmt.Errorf("failed to decode localized page '%s': %w", path, err)
		}
		def.SourcePath = path
		if def.Parent != "" {
			def.Parent = model.CleanRoute(def.Parent)
		}
		expanded, err := def.Expand()
		if err != nil {
			return err
		}
		l.logger.Debug("Expanded localized page",
			zap.String("file", path),
			zap.String("service", def.Service),
			zap.Int("cities", len(expanded)))
		pages = append(pages, expanded...)
		return nil
	})
	return pages, err
}

// walk calls fn for every file with ext under the named subdirectory, in
// lexical order. A missing subdirectory yields no files.
func (l *Loader) walk(sub, ext string, fn func(path string, data []byte) error) error {
	root := filepath.Join(l.dir, sub)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		l.logger.Debug("Content directory not found, skipping", zap.String("dir", root))
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s': %w", path, walkErr)
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ext) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", path, err)
		}
		l.logger.Debug("Processing file", zap.String("file", path))
		return fn(path, bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	})
}
