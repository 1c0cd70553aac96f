package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"sync"
	"time"

	"finboard/internal/dashboard"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	appweb "finboard/web"
)

// DataSource is the slice of the backend API the web dashboard reads.
type DataSource interface {
	dashboard.AccountsSource
	dashboard.TransactionsSource
}

// Server serves the dashboard page, its htmx partials and, in development,
// the /api reverse proxy to the backend.
type Server struct {
	http.Server
	templates *template.Template
	source    DataSource
	logger    *log.Logger
	detector  *security.Detector
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	started   time.Time

	shutdownOnce sync.Once
}

type options struct {
	logger       *log.Logger
	proxyTarget  *url.URL
	stripPrefix  bool
	ratePerMin   int
	readyTimeout time.Duration
}

// Option configures NewServer.
type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAPIProxy mounts /api/ as a reverse proxy to target. With stripPrefix
// the /api prefix is removed before forwarding.
func WithAPIProxy(target *url.URL, stripPrefix bool) Option {
	return func(o *options) {
		o.proxyTarget = target
		o.stripPrefix = stripPrefix
	}
}

// WithRateLimit caps proxied API requests per client and minute.
func WithRateLimit(perMinute int) Option {
	return func(o *options) { o.ratePerMin = perMinute }
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, source DataSource, opts ...Option) (*Server, error) {
	o := options{
		ratePerMin:   ratelimit.DefaultConfig().RequestsPerMinute,
		readyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Discard()
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		templates: t,
		source:    source,
		logger:    o.logger.WithComponent(log.ComponentHTTP),
		detector:  security.NewDetector(),
		started:   time.Now(),
	}
	s.tracer = trace.NewMiddleware(o.logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.Handle("GET /{$}", security.NoStore(http.HandlerFunc(s.handleIndex)))
	mux.Handle("GET /ui/accounts", security.NoStore(http.HandlerFunc(s.handleAccounts)))
	mux.Handle("GET /ui/transactions", security.NoStore(http.HandlerFunc(s.handleTransactions)))
	mux.Handle("GET /ui/content", security.NoStore(http.HandlerFunc(s.handleContent)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		s.handleReady(w, r, o.readyTimeout)
	})

	if o.proxyTarget != nil {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.ratePerMin})
		proxy := newAPIProxy(o.proxyTarget, o.stripPrefix, o.logger)
		limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(s.flagSuspicious(proxy))
		mux.Handle("/api/", limited)
		s.logger.Info("API proxy enabled",
			log.FieldTarget, o.proxyTarget.String(),
			"strip_prefix", o.stripPrefix)
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(o.logger.WithComponent(log.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).Warn("Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "Rate limit exceeded. Please try again later."})
}

// flagSuspicious logs probing requests before they reach the backend.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).Warn("Suspicious API request",
				log.NewFields().
					WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), "").
					WithClientIP(s.detector.ExtractClientIP(r)).
					ToSlice()...)
		}
		next.ServeHTTP(w, r)
	})
}
