// Package build turns a content directory into a static site.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suncoast/sitegen/internal/config"
	"github.com/suncoast/sitegen/internal/content"
	"github.com/suncoast/sitegen/internal/layout"
	"github.com/suncoast/sitegen/internal/lint"
	"github.com/suncoast/sitegen/internal/metrics"
	"github.com/suncoast/sitegen/internal/model"
	"github.com/suncoast/sitegen/internal/page"
	"github.com/suncoast/sitegen/internal/routes"
)

var (
	// ErrLint is returned when content has error-level findings.
	ErrLint = errors.New("content has lint errors")
	// ErrBrokenLinks is returned when rendered pages link to routes the
	// build does not publish.
	ErrBrokenLinks = errors.New("rendered pages contain broken internal links")
	// ErrUnsafeOutput is returned when cleaning the output directory would
	// remove the working directory or the site's sources.
	ErrUnsafeOutput = errors.New("refusing to clean output directory")
)

// Result summarizes a build.
type Result struct {
	Pages    int
	Findings []lint.Finding
	Broken   []routes.BrokenLink
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg      config.Config
	logger   *zap.Logger
	recorder metrics.Recorder
}

func New(cfg config.Config, logger *zap.Logger, recorder metrics.Recorder) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Builder{cfg: cfg, logger: logger, recorder: recorder}
}

// Prepare loads and lints the content without writing anything.
func (b *Builder) Prepare() (*model.Site, *routes.Manifest, []lint.Finding, error) {
	return b.prepare(b.logger)
}

func (b *Builder) prepare(logger *zap.Logger) (*model.Site, *routes.Manifest, []lint.Finding, error) {
	start := time.Now()
	site, err := content.NewLoader(b.cfg.ContentDir, logger).Load()
	if err != nil {
		return nil, nil, nil, err
	}
	b.recorder.ObserveStageDuration("load", time.Since(start))

	start = time.Now()
	manifest := routes.NewManifest(site, b.cfg.BaseURL)
	findings := lint.Check(site, manifest, lint.Options{StrictCost: b.cfg.StrictCost})
	b.recorder.ObserveStageDuration("lint", time.Since(start))

	counts := map[lint.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
		field := []zap.Field{zap.String("route", f.Route), zap.String("rule", f.Rule), zap.String("source", f.Source)}
		if f.Severity == lint.SeverityError {
			logger.Error(f.Message, field...)
		} else {
			logger.Warn(f.Message, field...)
		}
	}
	for sev, n := range counts {
		b.recorder.AddLintFindings(string(sev), n)
	}
	return site, manifest, findings, nil
}

// Build cleans the output directory and writes every page, sitemap.xml and
// robots.txt. It stops at the first error.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	logger := b.logger.With(zap.String("build", uuid.NewString()))
	start := time.Now()
	res, err := b.build(ctx, logger)
	b.recorder.ObserveBuildDuration(time.Since(start))
	switch {
	case err == nil:
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
		logger.Info("Build completed",
			zap.Int("pages", res.Pages),
			zap.Int("findings", len(res.Findings)),
			zap.Duration("duration", time.Since(start)))
	case errors.Is(err, ErrLint):
		b.recorder.IncBuildOutcome(metrics.OutcomeLintError)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
	default:
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}
	return res, err
}

func (b *Builder) build(ctx context.Context, logger *zap.Logger) (*Result, error) {
	if err := checkOutputDir(b.cfg); err != nil {
		return nil, err
	}
	site, manifest, findings, err := b.prepare(logger)
	if err != nil {
		return nil, err
	}
	res := &Result{Findings: findings}
	if lint.HasErrors(findings) {
		return res, ErrLint
	}

	composer, err := layout.New(b.cfg.LayoutsDir)
	if err != nil {
		return res, err
	}
	assembler := page.NewAssembler(b.cfg, composer)

	outputDir := b.cfg.OutputDir
	logger.Debug("Cleaning output directory", zap.String("dir", outputDir))
	if err := os.RemoveAll(outputDir); err != nil {
		return res, fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return res, fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	start := time.Now()
	if _, err := os.Stat(b.cfg.StaticDir); err == nil {
		files, err := copyDirContents(b.cfg.StaticDir, outputDir)
		if err != nil {
			return res, fmt.Errorf("failed to copy static assets: %w", err)
		}
		for _, f := range files {
			manifest.AddFile(f)
		}
		logger.Debug("Static assets copied", zap.Int("files", len(files)))
	}
	b.recorder.ObserveStageDuration("static", time.Since(start))

	sitemap, err := routes.Sitemap(site, b.cfg.BaseURL)
	if err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(outputDir, "sitemap.xml"), sitemap); err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(outputDir, "robots.txt"), routes.Robots(b.cfg.BaseURL)); err != nil {
		return res, err
	}
	manifest.AddFile("sitemap.xml")
	manifest.AddFile("robots.txt")

	start = time.Now()
	for _, p := range site.Pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var buf bytes.Buffer
		if err := assembler.Render(&buf, p); err != nil {
			return res, err
		}
		broken, err := manifest.CheckRendered(p.Route, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return res, err
		}
		res.Broken = append(res.Broken, broken...)

		outputPath := OutputPath(outputDir, p.Route)
		if err := writeFile(outputPath, buf.Bytes()); err != nil {
			return res, fmt.Errorf("page %s: %w", p.Route, err)
		}
		res.Pages++
		b.recorder.IncPagesRendered(string(p.Kind))
		logger.Debug("Generated page", zap.String("route", p.Route), zap.String("file", outputPath))
	}
	b.recorder.ObserveStageDuration("render", time.Since(start))

	if len(res.Broken) > 0 {
		for _, l := range res.Broken {
			logger.Error("Broken internal link", zap.String("route", l.From), zap.String("href", l.Href), zap.String("label", l.Label))
		}
		return res, fmt.Errorf("%w: %d link(s)", ErrBrokenLinks, len(res.Broken))
	}
	return res, nil
}

// checkOutputDir rejects output directories that Build must not remove:
// the filesystem root, the working directory or one of its parents, and
// any directory holding the content, layouts or static sources.
func checkOutputDir(cfg config.Config) error {
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory '%s': %w", cfg.OutputDir, err)
	}
	if filepath.Dir(out) == out {
		return fmt.Errorf("%w '%s': it is the filesystem root", ErrUnsafeOutput, cfg.OutputDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if within(out, cwd) {
		return fmt.Errorf("%w '%s': it contains the working directory", ErrUnsafeOutput, cfg.OutputDir)
	}
	sources := []struct{ name, dir string }{
		{"contentDir", cfg.ContentDir},
		{"layoutsDir", cfg.LayoutsDir},
		{"staticDir", cfg.StaticDir},
	}
	for _, src := range sources {
		if src.dir == "" {
			continue
		}
		dir, err := filepath.Abs(src.dir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s '%s': %w", src.name, src.dir, err)
		}
		if within(out, dir) {
			return fmt.Errorf("%w '%s': it contains %s '%s'", ErrUnsafeOutput, cfg.OutputDir, src.name, src.dir)
		}
	}
	return nil
}

// within reports whether path is dir or lies below it. Both are absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// OutputPath maps a route to its index.html under outputDir.
func OutputPath(outputDir, route string) string {
	return filepath.Join(outputDir, filepath.FromSlash(strings.Trim(route, "/")), "index.html")
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}
