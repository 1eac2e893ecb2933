// Пакет server — HTTP-сервер Filmorate с graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/filmorate/internal/api/handlers"
	"github.com/bigkaa/filmorate/internal/api/middleware"
	"github.com/bigkaa/filmorate/internal/config"
)

// Server — HTTP-сервер Filmorate.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, handler),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter создаёт chi-роутер со всеми маршрутами API.
func NewRouter(logger *slog.Logger, h *handlers.APIHandler) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.RequestID())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	router.Get("/health/live", h.HealthLive)
	router.Get("/health/ready", h.HealthReady)
	router.Get("/metrics", h.GetMetrics)

	router.Route("/films", func(r chi.Router) {
		r.Get("/", h.ListFilms)
		r.Post("/", h.CreateFilm)
		r.Put("/", h.UpdateFilm)
		r.Get("/popular", h.PopularFilms)
		r.Get("/{id}", h.GetFilm)
		r.Delete("/{id}", h.DeleteFilm)
		r.Put("/{id}/like/{userId}", h.LikeFilm)
		r.Delete("/{id}/like/{userId}", h.UnlikeFilm)
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Put("/", h.UpdateUser)
		r.Get("/{id}", h.GetUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Get("/{id}/friends", h.ListFriends)
		r.Put("/{id}/friends/{friendId}", h.AddFriend)
		r.Delete("/{id}/friends/{friendId}", h.RemoveFriend)
		r.Get("/{id}/friends/common/{otherId}", h.CommonFriends)
		r.Get("/{id}/followers", h.ListFollowers)
	})

	router.Get("/genres", h.ListGenres)
	router.Get("/genres/{id}", h.GetGenre)
	router.Get("/mpa", h.ListRatings)
	router.Get("/mpa/{id}", h.GetRating)

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM)
// или отмены ctx. Затем выполняется graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("Контекст отменён, остановка сервера")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
