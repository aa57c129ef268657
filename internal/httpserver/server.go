// internal/httpserver/server.go
//
// HTTP server wiring for the Big Monte backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logging, JSON, CORS, timeouts,
//     panic recovery).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /games/*.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Leaderboard endpoints: /leaderboard/* (rename/clear require auth).
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests, who are tracked by an
//     anonymous cookie.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bigmonte/internal/config"
	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/leaderboard"
	"github.com/robalobadob/bigmonte/internal/names"
	"github.com/robalobadob/bigmonte/internal/store"
)

// Server bundles the router, session store, leaderboard and DB handle.
type Server struct {
	r     *chi.Mux
	cfg   config.Env
	rules game.Config
	store store.Store
	board *leaderboard.Store
	db    *sql.DB

	// sessionLocks serialise load-mutate-save per session id.
	sessionLocks [64]sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Env, rules game.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		rules: rules,
		store: st,
		board: leaderboard.NewStore(db, rules),
		db:    db,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(requestIDLogger)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		s.r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "bigmonte-go",
			"endpoints": []string{
				"/health", "POST /games", "/games/{id}", "/daily/*", "/leaderboard", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ok := true
		if err := s.db.PingContext(r.Context()); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("health: db ping")
			ok = false
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": ok, "names": names.Stats()})
	})

	s.mountAuthRoutes()
	s.mountGames(s.r.With(s.withOptionalAuth()))
	s.mountDaily(s.r.With(s.withOptionalAuth()))
	s.mountLeaderboard()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) lockSession(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	mu := &s.sessionLocks[h.Sum32()%uint32(len(s.sessionLocks))]
	mu.Lock()
	return mu.Unlock
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDLogger copies chi's request id into the request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}
