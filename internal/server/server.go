// Package server serves a built site for local preview.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
	"git.home.luguber.info/inful/chloroplast/internal/server/middleware"
)

// MetricsPath is where the Prometheus registry is exposed when one is set.
const MetricsPath = "/metrics"

// Options configure a Server.
type Options struct {
	Fs        afero.Fs
	OutputDir string
	// Registry, when set, is served on MetricsPath.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server serves the output directory of a build.
type Server struct {
	opts    Options
	adapter *foundation.HTTPErrorAdapter
	srv     *http.Server
}

// New creates a server. It does not bind until Serve.
func New(opts Options) *Server {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{opts: opts, adapter: foundation.NewHTTPErrorAdapter(opts.Logger)}
}

// Handler returns the full handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.Registry != nil {
		mux.Handle(MetricsPath, metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/", s.staticHandler())
	return middleware.Chain(s.opts.Logger, s.adapter)(mux)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()
	s.opts.Logger.Info("Serving site", slog.String("addr", ln.Addr().String()), logfields.Path(s.opts.OutputDir))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return foundation.RuntimeError("preview server stopped").WithCause(err).Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return foundation.RuntimeError("preview server shutdown").WithCause(err).Build()
	}
	s.opts.Logger.Info("Preview server stopped")
	return nil
}

func (s *Server) staticHandler() http.Handler {
	files := afero.NewHttpFs(s.opts.Fs).Dir(s.opts.OutputDir)
	fileServer := http.FileServer(files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			s.adapter.WriteErrorResponse(w, r, foundation.ValidationError("method not allowed").
				WithContext("method", r.Method).Build())
			return
		}
		if !s.exists(r.URL.Path) {
			s.adapter.WriteErrorResponse(w, r, foundation.NewError(foundation.CategoryNotFound, "page not found").
				WithSeverity(foundation.SeverityInfo).
				WithContext("path", r.URL.Path).Build())
			return
		}
		if cc := cacheControl(r); cc != "" {
			w.Header().Set("Cache-Control", cc)
		}
		fileServer.ServeHTTP(w, r)
	})
}

// exists reports whether urlPath names a file, or a directory with an
// index.html. Directory listings are never served.
func (s *Server) exists(urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(s.opts.OutputDir, filepath.FromSlash(clean))
	fi, err := s.opts.Fs.Stat(full)
	if err != nil {
		return false
	}
	if !fi.IsDir() {
		return true
	}
	_, err = s.opts.Fs.Stat(filepath.Join(full, "index.html"))
	return err == nil
}

// cacheControl keeps pages fresh between rebuilds. Assets carrying a
// build version query change URL on every build and may be cached.
func cacheControl(r *http.Request) string {
	p := r.URL.Path
	if r.URL.Query().Get("v") != "" && !strings.HasSuffix(p, ".html") {
		return "public, max-age=31536000, immutable"
	}
	return "no-cache, must-revalidate"
}
