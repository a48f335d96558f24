package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"rentabilidad/internal/cache"
	"rentabilidad/internal/core"
	applog "rentabilidad/internal/log"
	"rentabilidad/internal/middleware/ratelimit"
	"rentabilidad/internal/middleware/security"
	"rentabilidad/internal/middleware/trace"
	"rentabilidad/internal/services"
)

const statsPrefix = "stats:"

// Options configures NewServer. Zero values fall back to defaults.
type Options struct {
	Addr           string
	Logger         *applog.Logger
	Ready          func(ctx context.Context) error
	StatsCacheTTL  time.Duration
	StatsCacheSize int
	RateLimit      int
	TrustedProxies []string
}

type Server struct {
	http.Server
	svc     *services.BusinessService
	logger  *applog.Logger
	ready   func(ctx context.Context) error
	today   func() core.Date
	started time.Time

	stats        *cache.Loader[core.Report]
	statsCache   *cache.LRUCache[core.Report]
	cacheManager *cache.Manager
	rateLimiter  *ratelimit.Limiter
	tracer       *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware around svc.
func NewServer(svc *services.BusinessService, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.StatsCacheTTL <= 0 {
		opts.StatsCacheTTL = 2 * time.Minute
	}
	if opts.StatsCacheSize <= 0 {
		opts.StatsCacheSize = 200
	}
	clientIP, err := security.NewClientIP(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}

	rl := ratelimit.DefaultConfig()
	if opts.RateLimit > 0 {
		rl.RequestsPerMinute = opts.RateLimit
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	s := &Server{
		svc:          svc,
		logger:       logger,
		ready:        opts.Ready,
		today:        core.Today,
		started:      time.Now(),
		statsCache:   cache.NewLRUCache[core.Report](opts.StatsCacheSize, opts.StatsCacheTTL),
		cacheManager: cache.NewManager(),
		rateLimiter:  ratelimit.NewLimiter(rl),
		tracer:       trace.NewMiddleware(logger, clientIP.Extract),
	}
	s.stats = cache.NewLoader[core.Report](s.statsCache)
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(opts.StatsCacheTTL)

	svc.OnChange(func(businessID string) {
		if n := s.stats.Purge(statsKeyPrefix(businessID)); n > 0 {
			logger.Debug("Stats cache purged", applog.FieldBusinessID, businessID, "entries", n)
		}
	})

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(clientIP.Extract, s.handleRateLimited)(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = s.tracer.Handler(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/expense-categories", s.handleExpenseCategories)
	mux.HandleFunc("POST /api/calculator", s.handleCalculator)

	mux.HandleFunc("GET /api/businesses", s.handleListBusinesses)
	mux.HandleFunc("POST /api/businesses", s.handleCreateBusiness)
	mux.HandleFunc("GET /api/businesses/{id}", s.handleGetBusiness)
	mux.HandleFunc("DELETE /api/businesses/{id}", s.handleDeleteBusiness)
	mux.HandleFunc("GET /api/current-business", s.handleCurrentBusiness)
	mux.HandleFunc("PUT /api/current-business", s.handleSelectBusiness)

	mux.HandleFunc("GET /api/businesses/{id}/products", s.handleListProducts)
	mux.HandleFunc("GET /api/businesses/{id}/products/low-stock", s.handleLowStock)
	mux.HandleFunc("POST /api/businesses/{id}/products", s.handleAddProduct)
	mux.HandleFunc("PUT /api/businesses/{id}/products/{pid}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/businesses/{id}/products/{pid}", s.handleDeleteProduct)

	mux.HandleFunc("GET /api/businesses/{id}/sales", s.handleListSales)
	mux.HandleFunc("POST /api/businesses/{id}/sales", s.handleRegisterSale)
	mux.HandleFunc("GET /api/businesses/{id}/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/businesses/{id}/expenses", s.handleAddExpense)
	mux.HandleFunc("GET /api/businesses/{id}/stats", s.handleStats)
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func statsKeyPrefix(businessID string) string {
	return statsPrefix + businessID + ":"
}

func statsKey(businessID string, end core.Date, days int) string {
	return statsKeyPrefix(businessID) + end.String() + ":" + strconv.Itoa(days)
}
