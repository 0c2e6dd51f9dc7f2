// Package worker provides the local HTTP service for stillpoint.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/stillpoint-app/stillpoint/internal/affinity"
	"github.com/stillpoint-app/stillpoint/internal/catalog"
	"github.com/stillpoint-app/stillpoint/internal/config"
	"github.com/stillpoint-app/stillpoint/internal/db/gorm"
	"github.com/stillpoint-app/stillpoint/internal/insights"
	"github.com/stillpoint-app/stillpoint/internal/recommend"
	"github.com/stillpoint-app/stillpoint/internal/struggle"
	"github.com/stillpoint-app/stillpoint/internal/voice"
	"github.com/stillpoint-app/stillpoint/internal/watcher"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Service is the worker service orchestrator.
type Service struct {
	version string
	config  *config.Config

	// Database
	store         *gorm.Store
	sessions      *gorm.SessionStore
	plans         *gorm.PlanStore
	templates     *gorm.TemplateStore
	profiles      *gorm.ProfileStore
	notifications *gorm.NotificationStore
	insightStore  *gorm.InsightStore
	voiceStore    *gorm.VoiceStore

	// Personalization engine
	deriver    *affinity.Deriver
	updater    *affinity.Updater
	decay      *affinity.DecayScheduler
	detector   *struggle.Detector
	scorer     *recommend.Scorer
	calculator *voice.Calculator
	analyzer   *insights.Analyzer

	// Deduplicates concurrent identical reads
	flight singleflight.Group

	// HTTP server
	router    *chi.Mux
	server    *http.Server
	startTime time.Time

	catalogWatcher *watcher.Watcher

	wg sync.WaitGroup
}

// NewService opens the database, wires the personalization engine and
// registers routes. The catalog file is loaded immediately and reloaded on
// change when watching is enabled.
func NewService(version string) (*Service, error) {
	cfg := config.Get()

	if err := config.EnsureAll(); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	store, err := gorm.NewStore(gorm.Config{
		Path:     cfg.DBPath,
		MaxConns: cfg.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	svc := &Service{
		version:       version,
		config:        cfg,
		store:         store,
		sessions:      gorm.NewSessionStore(store),
		plans:         gorm.NewPlanStore(store),
		templates:     gorm.NewTemplateStore(store),
		profiles:      gorm.NewProfileStore(store),
		notifications: gorm.NewNotificationStore(store),
		insightStore:  gorm.NewInsightStore(store),
		voiceStore:    gorm.NewVoiceStore(store),
		router:        chi.NewRouter(),
		startTime:     time.Now(),
	}

	svc.deriver = affinity.NewDeriver(nil)
	svc.updater = affinity.NewUpdater(svc.profiles, nil)
	// Decay shares the updater's lock: both do read-modify-write on the
	// singleton profile.
	svc.decay = affinity.NewDecayScheduler(svc.profiles, nil, svc.updater.Locker())
	svc.detector = struggle.NewDetector(struggle.DefaultConfig())
	svc.scorer = recommend.NewScorer(recommend.DefaultConfig(), nil)
	svc.calculator = voice.NewCalculator(nil)
	svc.analyzer = insights.NewAnalyzer(insights.DefaultConfig())

	svc.setupMiddleware()
	svc.setupRoutes()

	if err := svc.loadCatalog(context.Background()); err != nil {
		log.Warn().Err(err).Str("path", cfg.CatalogPath).Msg("Catalog not loaded")
	}
	if cfg.WatchCatalog {
		svc.startCatalogWatcher()
	}

	return svc, nil
}

func (s *Service) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
}

func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions", s.handleListSessions)

		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans", s.handleListPlans)

		r.Get("/templates", s.handleListTemplates)
		r.Post("/templates/{id}/save", s.handleSaveTemplate)
		r.Delete("/templates/{id}/save", s.handleUnsaveTemplate)
		r.Post("/templates/{id}/dismiss", s.handleDismissTemplate)
		r.Post("/templates/{id}/follow", s.handleFollowTemplate)

		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/struggles", s.handleStruggles)
		r.Post("/voice/recalculate", s.handleVoiceRecalculate)

		r.Post("/insights", s.handleCreateInsight)
		r.Post("/insights/{id}/share", s.handleShareInsight)
		r.Get("/insights", s.handleInsightsBundle)

		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile/reset", s.handleResetProfile)

		r.Get("/notifications", s.handleListNotifications)
	})
}

// loadCatalog reads the YAML catalog and upserts templates and courses.
func (s *Service) loadCatalog(ctx context.Context) error {
	file, err := catalog.Load(s.config.CatalogPath)
	if err != nil {
		return err
	}
	for _, tpl := range file.Templates {
		if err := s.templates.UpsertTemplate(ctx, tpl.ToModel()); err != nil {
			return fmt.Errorf("upsert template %s: %w", tpl.ID, err)
		}
	}
	for _, course := range file.Courses {
		existing, err := s.templates.ListCourses(ctx)
		if err != nil {
			return err
		}
		known := false
		for _, c := range existing {
			if c.CourseID == course.ID {
				known = true
				break
			}
		}
		// Existing rows keep their progress; only new courses are created.
		if !known {
			if err := s.templates.UpsertCourse(ctx, course.ToModel()); err != nil {
				return fmt.Errorf("upsert course %s: %w", course.ID, err)
			}
		}
	}
	log.Info().
		Int("templates", len(file.Templates)).
		Int("courses", len(file.Courses)).
		Msg("Catalog loaded")
	return nil
}

func (s *Service) startCatalogWatcher() {
	w, err := watcher.New(s.config.CatalogPath, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.loadCatalog(ctx); err != nil {
			log.Warn().Err(err).Msg("Catalog reload failed")
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create catalog watcher")
		return
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start catalog watcher")
		return
	}
	s.catalogWatcher = w
	log.Info().Str("path", s.config.CatalogPath).Msg("Catalog file watcher started")
}

// Start runs the HTTP server until the context is canceled.
func (s *Service) Start(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.config.WorkerPort)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info().Str("addr", addr).Str("version", s.version).Msg("Worker listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		return err
	}
}

// Stop shuts the server down gracefully and closes resources.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.catalogWatcher != nil {
		_ = s.catalogWatcher.Stop()
	}
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Server shutdown failed")
		}
	}
	s.wg.Wait()
	return s.store.Close()
}

// Router exposes the HTTP handler, used by tests.
func (s *Service) Router() http.Handler {
	return s.router
}
