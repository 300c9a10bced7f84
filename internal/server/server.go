// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware,
// and routes. It is the composition root: every service, handler, and
// external client is constructed here (or in New), so the dependency graph
// is visible in one place rather than scattered across the codebase.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it testable (a test can
// create a server without running main), reusable, and keeps main.go
// minimal — load config, build the server, start it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/devforum/internal/ai"
	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/config"
	"github.com/sakif/devforum/internal/handler"
	"github.com/sakif/devforum/internal/jobs"
	"github.com/sakif/devforum/internal/middleware"
	sqliteRepo "github.com/sakif/devforum/internal/repository/sqlite"
	"github.com/sakif/devforum/internal/service"
)

// Server owns the router, the database connection, and the config it was
// built from. The DB is closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	config → sqlite.DB → services → handlers → routes
//
// Each layer only receives what it needs: services get the repository
// interface (not the concrete DB), handlers get services (not repositories
// or the DB), and routes get handlers.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS — it executes in the order added:
//  1. RequestID — assigns a unique ID to each request (for tracing)
//  2. RealIP — extracts the real client IP from proxy headers
//  3. Recoverer — catches panics and returns 500 instead of crashing
//  4. Logger — logs each request with timing info
//
// AUTH TIERS:
// Routes are grouped three ways. Public routes run with no auth at all.
// Optional-auth routes accept a session cookie when present (listings that
// mark the caller's own content). Protected routes reject requests without
// a valid session before the handler runs.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Services ===
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	questionService := service.NewQuestionService(s.db, s.logger)
	answerService := service.NewAnswerService(s.db, s.logger)
	voteService := service.NewVoteService(s.db, s.logger)
	collectionService := service.NewCollectionService(s.db, s.logger)
	tagService := service.NewTagService(s.db, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	searchService := service.NewSearchService(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	// === External clients ===
	jobClient := jobs.NewClient(s.cfg.JobSearchBaseURL, s.cfg.JobSearchAPIKey, s.cfg.JobSearchAPIHost)
	countriesClient := jobs.NewCountriesClient(s.cfg.CountriesBaseURL)
	answerGenerator := ai.NewAnswerGenerator(s.cfg.OpenAIAPIKey, s.cfg.OpenAIModel)

	providers := []auth.Provider{
		auth.NewGitHubProvider(s.cfg.GitHubClientID, s.cfg.GitHubClientSecret, s.cfg.GitHubCallbackURL),
		auth.NewGoogleProvider(s.cfg.GoogleClientID, s.cfg.GoogleClientSecret, s.cfg.GoogleCallbackURL),
	}

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, providers, s.logger)
	questionHandler := handler.NewQuestionHandler(questionService, voteService, s.logger)
	answerHandler := handler.NewAnswerHandler(answerService, s.logger)
	voteHandler := handler.NewVoteHandler(voteService, s.logger)
	collectionHandler := handler.NewCollectionHandler(collectionService, s.logger)
	tagHandler := handler.NewTagHandler(tagService, questionService, s.logger)
	userHandler := handler.NewUserHandler(userService, questionService, answerService, s.logger)
	searchHandler := handler.NewSearchHandler(searchService, s.logger)
	jobHandler := handler.NewJobHandler(jobClient, countriesClient, s.logger)
	aiHandler := handler.NewAIHandler(answerGenerator, s.logger)

	requireAuth := auth.RequireAuth(tokens)
	optionalAuth := auth.OptionalAuth(tokens)

	// === Auth routes ===
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", authHandler.HandleSignUp)
		r.Post("/sign-in", authHandler.HandleSignIn)
		r.Get("/{provider}/login", authHandler.HandleOAuthLogin)
		r.Get("/{provider}/callback", authHandler.HandleOAuthCallback)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// === API routes ===
	s.router.Route("/api", func(r chi.Router) {
		// Public listings; optional auth so handlers can see who's asking.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)

			r.Get("/questions", questionHandler.HandleList)
			r.Get("/questions/{id}", questionHandler.HandleGet)
			r.Get("/questions/{id}/answers", answerHandler.HandleListByQuestion)

			r.Get("/tags", tagHandler.HandleList)
			r.Get("/tags/{id}/questions", tagHandler.HandleQuestions)

			r.Get("/users", userHandler.HandleList)
			r.Get("/users/{id}", userHandler.HandleGet)
			r.Get("/users/{id}/questions", userHandler.HandleQuestions)
			r.Get("/users/{id}/answers", userHandler.HandleAnswers)
			r.Get("/users/{id}/stats", userHandler.HandleStats)
			r.Get("/users/{id}/tags", userHandler.HandleTopTags)

			r.Get("/search", searchHandler.HandleGlobal)

			r.Get("/jobs", jobHandler.HandleSearch)
			r.Get("/jobs/countries", jobHandler.HandleCountries)
		})

		// Protected routes; a valid session is required.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)
			r.Put("/users/me", userHandler.HandleUpdateProfile)

			r.Post("/questions", questionHandler.HandleCreate)
			r.Put("/questions/{id}", questionHandler.HandleEdit)
			r.Delete("/questions/{id}", questionHandler.HandleDelete)

			r.Post("/questions/{id}/answers", answerHandler.HandleCreate)
			r.Delete("/answers/{id}", answerHandler.HandleDelete)

			r.Post("/votes", voteHandler.HandleCast)
			r.Get("/votes/status", voteHandler.HandleStatus)

			r.Post("/collections", collectionHandler.HandleToggle)
			r.Get("/collections", collectionHandler.HandleListSaved)
			r.Get("/collections/status", collectionHandler.HandleIsSaved)

			r.Post("/ai/answer", aiHandler.HandleGenerate)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.cfg.Port),
			slog.String("env", s.cfg.AppEnv),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
