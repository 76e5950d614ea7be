// Package server is an HTTP host for the related episodes block. It binds
// routes to content items, renders the block through the render cache and
// formats the output as HTML or JSON.
package server

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mmcdole/episodeblock/internal/block"
	"github.com/mmcdole/episodeblock/internal/cache"
	"github.com/mmcdole/episodeblock/internal/domain"
	"github.com/mmcdole/episodeblock/internal/metrics"
	"github.com/mmcdole/episodeblock/internal/render"
)

// Builder renders the block for a route
type Builder interface {
	Build(ctx context.Context, route domain.RouteContext) (domain.RenderOutput, error)
}

// Server wires the block into HTTP routes
type Server struct {
	block   Builder
	cached  *cache.CachedBuilder
	loader  domain.EntityLoader
	metrics *metrics.Metrics
	logger  *slog.Logger
	param   string
}

// Option configures a Server
type Option func(*Server)

// WithCache serves block output from c
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		if c != nil {
			s.cached = cache.NewCachedBuilder(block.ID, s.block, c, ttl, s.logger)
		}
	}
}

// WithMetrics records render metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a server. loader is used to resolve the page's own item.
func New(b Builder, loader domain.EntityLoader, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{block: b, loader: loader, logger: logger, param: block.DefaultRouteParameter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Get("/node/{"+s.param+"}", s.handlePage)
	r.Route("/api/blocks/"+block.ID, func(r chi.Router) {
		r.Get("/", s.handleJSON)
		r.Get("/{"+s.param+"}", s.handleJSON)
	})

	return r
}

// chiRoute exposes chi URL parameters as a route context
type chiRoute struct {
	r *http.Request
}

func (c chiRoute) Parameter(name string) (string, bool) {
	return urlParam(c.r, name)
}

// urlParam returns a decoded URL parameter. chi matches against the escaped
// path when the request has one, so its parameters are still escaped then.
func urlParam(r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(v)
		if err != nil {
			return "", false
		}
		v = decoded
	}
	return v, v != ""
}

// contextValues returns the request's value for each cache context the host supports
func contextValues(r *http.Request) map[string]string {
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		route = rctx.RoutePattern() + "|" + strings.Join(rctx.URLParams.Values, ",")
	}
	return map[string]string{domain.CacheContextRoute: route}
}

// build renders the block, through the cache when one is configured
func (s *Server) build(r *http.Request) (domain.RenderOutput, error) {
	start := time.Now()
	route := chiRoute{r: r}

	var (
		out domain.RenderOutput
		hit bool
		err error
	)
	if s.cached != nil {
		out, hit, err = s.cached.Build(r.Context(), route, contextValues(r))
	} else {
		out, err = s.block.Build(r.Context(), route)
	}

	if s.metrics != nil {
		outcome := metrics.OutcomeRendered
		switch {
		case err != nil:
			outcome = metrics.OutcomeError
		case hit:
			outcome = metrics.OutcomeCached
		}
		s.metrics.Observe(block.ID, outcome, len(out.Items), time.Since(start).Seconds())
	}
	return out, err
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	out, err := s.build(r)
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	s.write(w, render.JSONFormatter{}, out)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<article>
  <h1>{{.Title}}</h1>
  {{- with .Summary}}
  <p>{{.}}</p>
  {{- end}}
</article>
<aside>
{{.Block}}</aside>
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(r, s.param)
	if !ok {
		http.NotFound(w, r)
		return
	}
	items, err := s.loader.LoadMultiple(r.Context(), domain.EntityTypeNode, []string{id})
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	item, ok := items[id]
	if !ok || !item.Published {
		http.NotFound(w, r)
		return
	}

	out, err := s.build(r)
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}

	var fragment bytes.Buffer
	if err := (render.HTMLFormatter{BlockID: block.ID}).Format(&fragment, block.AdminLabel, out); err != nil {
		s.renderFailed(w, r, err)
		return
	}

	var page bytes.Buffer
	err = pageTemplate.Execute(&page, struct {
		Title   string
		Summary string
		Block   template.HTML
	}{Title: item.DisplayTitle(), Summary: item.Summary, Block: template.HTML(fragment.String())})
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Bytes())
}

func (s *Server) write(w http.ResponseWriter, f render.Formatter, out domain.RenderOutput) {
	var buf bytes.Buffer
	if err := f.Format(&buf, block.AdminLabel, out); err != nil {
		s.logger.Error("format block output", "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Write(buf.Bytes())
}

// renderFailed reports a generic failure; details only go to the log
func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("block render failed", "path", r.URL.Path, "error", err)
	http.Error(w, "rendering failed", http.StatusInternalServerError)
}
