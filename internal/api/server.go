package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nearActivity/internal/chain"
	"nearActivity/internal/model"
)

// ActivitySource returns pages of an account's activity feed.
type ActivitySource interface {
	GetAccountActivity(ctx context.Context, accountID string, pageSize int, cursor *uint64) (model.ActivityPage, error)
}

// Node is the subset of the node RPC exposed over HTTP.
type Node interface {
	Status(ctx context.Context) (chain.Status, error)
	ViewAccount(ctx context.Context, accountID string) (chain.AccountView, error)
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the router. DB backs /readyz and may be nil.
type Options struct {
	DefaultLimit   int
	MaxLimit       int
	RequestTimeout time.Duration
	CORSOrigins    []string
	DB             Pinger
}

// Server serves the explorer HTTP API.
type Server struct {
	activity ActivitySource
	node     Node
	opts     Options
	logger   *zap.Logger
}

// NewServer builds a Server. node may be nil.
func NewServer(activity ActivitySource, node Node, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{activity: activity, node: node, opts: opts, logger: logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.getReady)

	r.Group(func(r chi.Router) {
		if s.opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.RequestTimeout))
		}

		r.Get("/api/status", s.getStatus)
		r.Get("/api/accounts/{accountID}", s.getAccount)
		r.Get("/api/accounts/{accountID}/activity", s.getActivity)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
