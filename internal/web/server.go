// Package web is the browser host: it serves a single page client and runs
// one session flow per websocket connection.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/auth"
	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/metrics"
	"github.com/HaiFongPan/fpick/internal/session"
	"github.com/HaiFongPan/fpick/internal/source"
)

// TokenParam is the query parameter carrying the login token on API URLs
const TokenParam = "token"

//go:embed static
var staticFiles embed.FS

// App is the flow run for each connected browser
type App func(ctx context.Context, host *Host) error

// Server serves the browser client and its websocket sessions
type Server struct {
	cfg         *config.Config
	source      source.Source
	app         App
	signer      *auth.Signer
	upgrader    websocket.Upgrader
	callTimeout time.Duration
}

// NewServer creates a server running app for every connection. Thumbnails
// are served from src, limited to the configured picker root.
func NewServer(cfg *config.Config, src source.Source, app App) *Server {
	callTimeout := DefaultCallTimeout
	if cfg.General.DefaultTimeout > 0 {
		callTimeout = time.Duration(cfg.General.DefaultTimeout) * time.Second
	}
	return &Server{
		cfg:         cfg,
		source:      src,
		app:         app,
		signer:      newSigner(cfg),
		callTimeout: callTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Router returns the HTTP routes of the server
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(logRequests)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleSession).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("/thumb", s.handleThumb).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("web: listening on http://%s", s.cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		logrus.Info("web: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleSession upgrades the request and runs the app until it returns or
// the browser goes away
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("web: upgrade failed: %v", err)
		return
	}

	host := newHost(conn, s.callTimeout)
	defer host.Close()
	metrics.SessionStarted()
	defer metrics.SessionEnded()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-host.Done()
		cancel()
	}()
	go host.readLoop()
	go host.pingLoop()

	host.log.Info("session started")
	err = s.app(ctx, host)
	switch {
	case err == nil:
		host.log.Info("session finished")
	case errors.Is(err, session.ErrSessionClosed), errors.Is(err, context.Canceled):
		host.log.Info("session closed by client")
	default:
		host.log.Errorf("session failed: %v", err)
	}
}

// newSigner returns the login token signer, or nil when auth is off
func newSigner(cfg *config.Config) *auth.Signer {
	if !cfg.Auth.Enabled {
		return nil
	}
	return auth.NewSigner(cfg.Auth.Secret, cfg.Auth.TokenName, cfg.Auth.ExpireDays)
}

// requireToken rejects API requests without a valid login token when auth
// is enabled. The token comes from the token query parameter or a bearer
// Authorization header.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.signer == nil {
			next.ServeHTTP(w, r)
			return
		}

		token := r.URL.Query().Get(TokenParam)
		if h := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		user, err := s.signer.Verify(token)
		if err != nil {
			logrus.Debugf("web: rejected token for %s: %v", r.URL.Path, err)
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		logrus.WithField("user", user).Debugf("web: %s", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("web: request")
	})
}
