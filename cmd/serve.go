package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suncoast/sitegen/internal/build"
	"github.com/suncoast/sitegen/internal/metrics"
	"github.com/suncoast/sitegen/internal/watch"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a local
web server for the output directory. It watches the content, layouts and
static directories and rebuilds on change. Build metrics are served at
/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prom.NewRegistry()
		builder := build.New(appConfig, logger, metrics.NewPrometheusRecorder(reg))

		logger.Info("Performing initial build")
		if _, err := builder.Build(ctx); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		w, err := watch.New(
			[]string{appConfig.ContentDir, appConfig.LayoutsDir, appConfig.StaticDir},
			watch.DefaultDebounce,
			func() {
				logger.Info("Rebuilding site due to changes")
				if _, err := builder.Build(ctx); err != nil {
					logger.Error("Rebuild failed", zap.Error(err))
				}
			},
			logger,
		)
		if err != nil {
			return err
		}
		defer w.Close()

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		mux.Handle("/", siteHandler(appConfig.OutputDir))

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", serverPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			logger.Info("Serving site",
				zap.String("dir", appConfig.OutputDir),
				zap.String("url", fmt.Sprintf("http://localhost:%d", serverPort)))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start HTTP server: %w", err)
			}
			return nil
		case <-ctx.Done():
			logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

// siteHandler serves outputDir with caching disabled and without
// directory listings.
func siteHandler(outputDir string) http.Handler {
	fs := http.FileServer(http.Dir(outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
