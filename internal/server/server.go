package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/flix-be/internal/account"
	"github.com/hongminglow/flix-be/internal/auth"
	"github.com/hongminglow/flix-be/internal/config"
	"github.com/hongminglow/flix-be/internal/http/handlers"
	"github.com/hongminglow/flix-be/internal/http/respond"
	"github.com/hongminglow/flix-be/internal/middleware"
	"github.com/hongminglow/flix-be/internal/storage"
)

// ShutdownTimeout bounds how long in-flight requests get after Run's
// context is cancelled.
const ShutdownTimeout = 15 * time.Second

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) (*Server, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	accounts, err := account.NewService(store, auth.NewPasswordHasher(cfg.BcryptCost), tokens)
	if err != nil {
		return nil, fmt.Errorf("init accounts: %w", err)
	}

	router := httprouter.New()
	protect := middleware.RequireAuth(tokens, store)

	handlers.NewHealthHandler(time.Now()).Register(router)
	handlers.NewAuthHandler(accounts).Register(router)
	handlers.NewUserHandler(accounts).Register(router, protect)
	handlers.NewMovieHandler(store).Register(router, protect)
	router.NotFound = notFound(cfg.StaticDir)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handler := middleware.Chain(router, middleware.Logging, middleware.CORS(cfg.CORSOrigins))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Handler exposes the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Run serves HTTP traffic until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.inner.Addr).Msg("http server listening")
		if err := s.inner.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down http server")
		if err := s.inner.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// notFound serves existing files from dir for unmatched GET and HEAD
// requests and a JSON 404 for everything else.
func notFound(dir string) http.Handler {
	jsonNotFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "not found")
	})
	if dir == "" {
		return jsonNotFound
	}
	root := http.Dir(dir)
	files := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			jsonNotFound(w, r)
			return
		}
		f, err := root.Open(path.Clean("/" + r.URL.Path))
		if err != nil {
			jsonNotFound(w, r)
			return
		}
		_ = f.Close()
		files.ServeHTTP(w, r)
	})
}
