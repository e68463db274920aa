// Package dashboard hosts the SafeDrive browser-facing service.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/platform/timeouts"
	"github.com/safedrive/dashboard/internal/services/dashboard/access"
	"github.com/safedrive/dashboard/internal/services/dashboard/app"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/module"
	"github.com/safedrive/dashboard/internal/services/dashboard/modules"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/observability"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/sessioncookie"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/weberror"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/session"
	"github.com/safedrive/dashboard/internal/services/dashboard/static"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

const (
	// DefaultSessionTTL bounds the lifetime of the scope cookie. Scopes idle
	// for longer are evicted from memory.
	DefaultSessionTTL = 30 * 24 * time.Hour
	// DefaultDetectionIdle is how long an unwatched simulator survives.
	DefaultDetectionIdle = 2 * time.Minute

	sweepInterval = time.Minute
)

// Config defines startup inputs for the dashboard service.
type Config struct {
	HTTPAddr string
	Store    storage.Store
	Dataset  *dataset.Provider

	SessionSecret []byte
	SessionTTL    time.Duration
	LoginDelay    time.Duration
	// Credentials defaults to the demo accounts.
	Credentials []session.Credential

	DetectionInterval time.Duration
	DetectionDisplay  time.Duration
	// DetectionIdle ends detection for pages closed without stopping it.
	DetectionIdle time.Duration
	// DetectionSource overrides the random detection source.
	DetectionSource detection.Source

	Now    func() time.Time
	Logger *zap.Logger
}

// Server hosts the dashboard HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	service    *service
}

// service is the composed handler together with the per-scope managers it
// owns.
type service struct {
	handler    http.Handler
	sessions   *session.Manager
	detections *detection.Manager

	stop     chan struct{}
	stopOnce sync.Once
}

func (s *service) close() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() { close(s.stop) })
	s.detections.Close()
	s.sessions.Close()
}

// sweep evicts idle scopes and simulators until close.
func (s *service) sweep(interval, detectionIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sessions.Sweep()
			s.detections.Sweep(detectionIdle)
		}
	}
}

func newService(cfg Config) (*service, error) {
	if cfg.Store == nil {
		return nil, errors.New("storage is required")
	}
	if cfg.Dataset == nil {
		return nil, errors.New("dataset is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	codec, err := sessioncookie.NewCodec(cfg.SessionSecret, ttl)
	if err != nil {
		return nil, fmt.Errorf("session cookie: %w", err)
	}

	sessions := session.NewManager(cfg.Store, session.Options{
		Credentials: cfg.Credentials,
		LoginDelay:  cfg.LoginDelay,
		Logger:      logger.Named("session"),
		IdleTTL:     ttl,
		Now:         cfg.Now,
	})
	detections := detection.NewManager(detection.Options{
		Interval: cfg.DetectionInterval,
		Display:  cfg.DetectionDisplay,
		Source:   cfg.DetectionSource,
		Logger:   logger.Named("detection"),
	})
	scopes := newScopeResolver(codec, sessions, detections, cfg.Store, logger)

	deps := module.Dependencies{
		Dataset:            cfg.Dataset,
		Credentials:        cfg.Credentials,
		Now:                cfg.Now,
		Logger:             logger,
		ResolveSession:     scopes.resolveSession,
		PeekSession:        scopes.peekSession,
		ResolveSimulator:   scopes.resolveSimulator,
		ResolvePreferences: scopes.resolvePreferences,
		ReleaseDetection:   scopes.releaseDetection,
	}
	writeError := func(w http.ResponseWriter, r *http.Request, err error) {
		weberror.Write(w, r, logger, err)
	}
	guard := func(role session.Role) httpx.Middleware {
		return access.Guard(role, access.GuardOptions{
			Resolve: scopes.resolveSession,
			Loading: http.HandlerFunc(renderLoading),
			Error:   writeError,
		})
	}
	h, err := app.Composer{}.Compose(app.ComposeInput{
		Dependencies:     deps,
		PublicModules:    modules.DefaultPublicModules(),
		ProtectedModules: modules.DefaultProtectedModules(),
		Guard:            guard,
		NotFound:         http.HandlerFunc(weberror.NotFound),
	})
	if err != nil {
		detections.Close()
		sessions.Close()
		return nil, err
	}

	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.Static, http.StripPrefix(routepath.Static, http.FileServer(http.FS(static.FS))))
	rootMux.HandleFunc(http.MethodGet+" "+routepath.Health, healthHandler(sessions, detections))
	rootMux.Handle(http.MethodGet+" "+routepath.Metrics, promhttp.Handler())
	rootMux.Handle("/", scopes.withScope()(h))

	detectionIdle := cfg.DetectionIdle
	if detectionIdle <= 0 {
		detectionIdle = DefaultDetectionIdle
	}
	svc := &service{
		handler: httpx.Chain(rootMux,
			middleware.RealIP,
			middleware.Compress(5),
			httpx.RecoverPanic(logger),
			httpx.RequestID(),
			observability.RequestLogger(logger.Named("http")),
			observability.Metrics(),
		),
		sessions:   sessions,
		detections: detections,
		stop:       make(chan struct{}),
	}
	go svc.sweep(sweepInterval, detectionIdle)
	return svc, nil
}

func renderLoading(w http.ResponseWriter, r *http.Request) {
	loc := pagerender.Localizer(r)
	_ = pagerender.Write(w, r, pagerender.Page{
		Title:    templates.T(loc, i18n.KeyLoading),
		Fragment: templates.LoadingState(loc),
	})
}

type healthStatus struct {
	Status     string `json:"status"`
	Sessions   int    `json:"sessions"`
	Simulators int    `json:"simulators"`
}

func healthHandler(sessions *session.Manager, detections *detection.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSON(w, http.StatusOK, healthStatus{
			Status:     "ok",
			Sessions:   sessions.Len(),
			Simulators: detections.Len(),
		})
	}
}

// NewServer validates config and constructs a dashboard server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	svc, err := newService(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose dashboard handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           svc.handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		service: svc,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("dashboard server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		// Live streams are hijacked and ignored by Shutdown; closing the
		// simulators ends them.
		s.service.close()
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown dashboard http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve dashboard http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.service.close()
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
}
