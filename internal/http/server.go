// Package http serves the budget tracker JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgettracker/internal/cache"
	"budgettracker/internal/charts"
	"budgettracker/internal/core"
	"budgettracker/internal/log"
	"budgettracker/internal/middleware/ratelimit"
	"budgettracker/internal/middleware/security"
	"budgettracker/internal/middleware/trace"
	"budgettracker/internal/services"
	"budgettracker/internal/store"
)

// Deps are the collaborators the handlers use. Ping may be nil.
type Deps struct {
	Store     *store.Store
	Processor *services.RecurringProcessor
	Summaries *cache.SummaryCache
	Charts    *charts.Generator
	Ping      func(ctx context.Context) error
	Logger    *log.Logger
	Now       func() time.Time
	// RateLimit is mutating requests per minute per client; zero uses the
	// limiter default.
	RateLimit int
	// TrustedProxies are CIDRs allowed to report the client address in
	// X-Forwarded-For. Loopback is always trusted.
	TrustedProxies []string
}

type Server struct {
	http.Server
	store     *store.Store
	processor *services.RecurringProcessor
	summaries *cache.SummaryCache
	charts    *charts.Generator
	ping      func(ctx context.Context) error
	logger    *log.Logger
	now       func() time.Time

	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	summaries := deps.Summaries
	if summaries == nil {
		summaries = cache.NewSummaryCache(deps.Store, 100, 5*time.Minute)
	}
	gen := deps.Charts
	if gen == nil {
		gen = charts.NewGenerator(core.DefaultCurrencySymbol)
	}

	detector := security.NewDetector(logger)
	for _, cidr := range deps.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s := &Server{
		store:     deps.Store,
		processor: deps.Processor,
		summaries: summaries,
		charts:    gen,
		ping:      deps.Ping,
		logger:    logger.WithComponent(log.ComponentHTTP),
		now:       now,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimit}),
		tracer:    trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = mux
	h = s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
	})(h)
	h = detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("POST /api/categories/quick-add", s.handleQuickAddCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("POST /api/recurring/process", s.handleProcessRecurring)
	mux.HandleFunc("GET /api/recurring/{id}", s.handleGetRecurring)
	mux.HandleFunc("PATCH /api/recurring/{id}", s.handleUpdateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/trends", s.handleTrends)
	mux.HandleFunc("GET /api/charts/monthly.png", s.handleMonthlyChart)
	mux.HandleFunc("GET /api/charts/categories.png", s.handleCategoryChart)
	mux.HandleFunc("GET /api/charts/budget.png", s.handleBudgetChart)

	mux.HandleFunc("DELETE /api/data", s.handleClearAll)
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		tm, rm := s.Metrics()
		s.logger.Info("Stopping HTTP server",
			"requests", tm.TotalRequests, "server_errors", tm.ServerErrors, "limited_clients", rm.ClientCount)
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Metrics exposes request counters for diagnostics.
func (s *Server) Metrics() (trace.Metrics, ratelimit.Metrics) {
	return s.tracer.GetMetrics(), s.limiter.GetMetrics()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
