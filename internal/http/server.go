package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"gagyebu/internal/analysis"
	"gagyebu/internal/cache"
	"gagyebu/internal/core"
	"gagyebu/internal/log"
	"gagyebu/internal/middleware/ratelimit"
	"gagyebu/internal/middleware/security"
	"gagyebu/internal/middleware/trace"
	"gagyebu/internal/services"
	appweb "gagyebu/web"
)

// Ledger is the part of services.Ledger the handlers use.
type Ledger interface {
	Snapshot() core.Dataset
	Version() uint64
	Len() int
	Recommend(productName string) core.Category
	Add(ctx context.Context, in core.EntryInput) (core.Expense, []string, error)
	Delete(ctx context.Context, positions ...int) (int, error)
	Filter(f services.ListFilter) []services.Entry
}

var _ Ledger = (*services.Ledger)(nil)

// Options tunes the server; zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	CacheSize          int
	CacheTTL           time.Duration
	Logger             *slog.Logger
}

type statsResult struct {
	stats analysis.Statistics
	err   error
}

type analysisResult struct {
	report  analysis.Summary
	summary analysis.Summary
}

type Server struct {
	http.Server
	templates *template.Template
	ledger    Ledger
	logger    *log.Logger
	started   time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	statsCache    *cache.LRUCache[statsResult]
	analysisCache *cache.LRUCache[analysisResult]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, ledger Ledger, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	s := &Server{
		ledger:           ledger,
		logger:           log.FromSlog(opts.Logger, log.ComponentHTTP),
		started:          time.Now(),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: security.NewDetector(),
		traceMiddleware:  trace.NewMiddleware(),
		statsCache:       cache.NewLRUCache[statsResult](opts.CacheSize, opts.CacheTTL),
		analysisCache:    cache.NewLRUCache[analysisResult](opts.CacheSize, opts.CacheTTL),
		cacheManager:     cache.NewManager(),
	}
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.Register(s.analysisCache)
	s.cacheManager.StartCleanup(opts.CacheTTL)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.traceMiddleware.Middleware)
	r.Use(log.Middleware(s.logger, trace.FromRequest, s.securityDetector.ExtractClientIP))
	r.Use(s.securityDetector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited, http.MethodPost))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Post("/expenses", s.handleCreateExpense)
	r.Post("/expenses/delete", s.handleDeleteExpenses)

	r.Route("/ui", func(r chi.Router) {
		r.Get("/recommend", s.handleRecommend)
		r.Get("/expenses", s.handleListExpenses)
		r.Get("/stats", s.handleStats)
		r.Post("/analysis", s.handleAnalysis)
	})
	r.Get("/api/stats", s.handleStatsJSON)
	return r
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again in a minute.").Write(w)
}

// Shutdown stops background goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
